package stage

import (
	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/jazzify/chordplay/constants"
)

// BatchGetItem takes a bounded number of keys per request, so GetStages
// pages through the numbers in fixed-size batches.
const dynamoBatchMax = 10

func keyBatches(numbers []string) [][]map[string]*dynamodb.AttributeValue {
	var batches [][]map[string]*dynamodb.AttributeValue
	for start := 0; start < len(numbers); start += dynamoBatchMax {
		end := start + dynamoBatchMax
		if end > len(numbers) {
			end = len(numbers)
		}
		var keys []map[string]*dynamodb.AttributeValue
		for _, number := range numbers[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(number)},
			})
		}
		batches = append(batches, keys)
	}
	return batches
}

func stageFromItem(v map[string]*dynamodb.AttributeValue) Stage {
	var s Stage
	s.Number = *v["PK"].S
	if v["Name"] != nil && v["Name"].S != nil {
		s.Name = *v["Name"].S
	}
	if v["Description"] != nil && v["Description"].S != nil {
		s.Description = *v["Description"].S
	}
	if v["Mode"] != nil && v["Mode"].S != nil {
		s.Mode = *v["Mode"].S
	}
	if v["BgmUrl"] != nil && v["BgmUrl"].S != nil {
		s.BGMURL = *v["BgmUrl"].S
	}
	if v["AllowedChords"] != nil {
		for _, av := range v["AllowedChords"].L {
			if av.S != nil {
				s.AllowedChords = append(s.AllowedChords, *av.S)
			}
		}
	}
	if v["Progression"] != nil {
		for _, av := range v["Progression"].L {
			if av.S != nil {
				s.Progression = append(s.Progression, *av.S)
			}
		}
	}
	return s
}

// GetStages fetches authored stage rows from DynamoDB by stage number.
func GetStages(numbers []string) (map[string]Stage, error) {
	res := make(map[string]Stage)
	if len(numbers) == 0 {
		return res, nil
	}

	endpoint := constants.GetDynamoEndpoint()
	session, err := awssession.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, err
	}
	client := dynamodb.New(session)

	for _, keys := range keyBatches(numbers) {
		input := &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				constants.StageTable: {Keys: keys},
			},
		}
		dbres, err := client.BatchGetItem(input)
		if err != nil {
			return nil, err
		}
		for _, v := range dbres.Responses[constants.StageTable] {
			s := stageFromItem(v)
			res[s.Number] = s
		}
	}

	return res, nil
}
