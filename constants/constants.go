package constants

import "os"

func GetStageDir() string {
	path := os.Getenv("STAGE_PATH")
	if path != "" {
		return path
	}
	return "./stages"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

const StageTable = "fantasy_stages"

// Tolerances around an entry's due time, in ms.
const DefaultPerfectMs = 80
const DefaultGoodMs = 250

const ScorePerfect = 100
const ScoreGood = 50

// Slop when deciding whether a whole beat has been crossed. Kept
// small; judgment tolerance lives in the ms windows, not here.
const BeatEpsilon = 0.01

const DefaultBPM = 120
const DefaultTimeSignature = 4
const DefaultMeasureCount = 4
const DefaultCountInMeasures = 1

// How often the engine advances the transport.
const DefaultTickMs = 16

// Notes struck within this window count as one chord.
const DefaultDebounceMs = 60
