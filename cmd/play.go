package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jazzify/chordplay/constants"
	"github.com/jazzify/chordplay/engine"
	"github.com/jazzify/chordplay/input"
	"github.com/jazzify/chordplay/model"
	"github.com/jazzify/chordplay/stage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
)

var (
	playStage string
	playPort  int
)

func init() {
	playCmd.Flags().StringVar(&playStage, "stage", "1-1", "stage number to play")
	playCmd.Flags().IntVar(&playPort, "port", 0, "midi input port")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Plays a stage against a MIDI keyboard",
	Long:  `Plays a stage against a MIDI keyboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return play()
	},
}

func loadCatalog() []stage.Stage {
	stages, err := stage.LoadDir(constants.GetStageDir())
	if err != nil {
		logrus.Warnf("could not load stage dir: %v", err)
	}
	if len(stages) == 0 {
		stages = stage.Defaults()
	}
	return stages
}

// pumpRefills asks the engine for the next progression chord in each
// judged lane. It runs on its own goroutine because judgment
// callbacks must not call back into the engine.
func pumpRefills(eng *engine.Engine, lanes <-chan int) {
	for lane := range lanes {
		if _, err := eng.FillLane(lane); err != nil {
			logrus.Debugf("refill lane %d: %v", lane, err)
		}
	}
}

func play() error {
	defer midi.CloseDriver()

	st, ok := stage.Find(loadCatalog(), playStage)
	if !ok {
		return fmt.Errorf("no stage %v", playStage)
	}
	cfg, err := st.Config()
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	eng.OnScheduleChange(func(entries []model.ScheduledEntry) {
		for _, e := range entries {
			fmt.Printf("  lane %d: %s (beat %.0f)\n", e.Lane, e.Chord.Name, e.HitBeat)
		}
	})
	refills := make(chan int, 16)
	eng.OnJudgment(func(r model.JudgmentResult) {
		fmt.Printf("%-7s %-8s %+.0fms  combo=%d score=%d\n",
			r.Outcome, r.Chord.Name, r.TimingDeltaMs, r.Combo, r.Score)
		if cfg.Mode == model.ModeProgression {
			select {
			case refills <- r.Lane:
			default:
			}
		}
	})
	go pumpRefills(eng, refills)
	defer close(refills)

	collector := input.NewCollector(func(notes model.Notes, atMs float64) {
		eng.SubmitNotes(notes, atMs)
	}, constants.DefaultDebounceMs*time.Millisecond, eng.ElapsedMs)

	stopListen, err := input.ListenMidi(playPort, collector)
	if err != nil {
		return err
	}
	defer stopListen()

	if err := eng.Start(); err != nil {
		return err
	}
	defer eng.Stop()
	logrus.Infof("playing stage %v: %v (Ctrl-C to quit)", st.Number, st.Name)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	return nil
}
