package normalizer

import (
	"fmt"

	"contactbase/internal"
)

const (
	companyNamePrompt = `Clean the following company name so it can be used in emails. Output ONLY the cleaned company name, nothing else. Example: "ATLAS Media GmbH" becomes "Atlas Media" and "HIT Feinkost Spezialitäten" becomes "Hit": %s`

	// The target sentence is German, so the model is asked for German phrasing.
	jobTitlePrompt = `Clean the following job titel so it can be used in the following email: "Hallo, ich habe gesehen, dass Sie als JOBTITEL einiges an Erfahrung gesammelt haben". Output ONLY the cleaned company name in german, nothing else: %s`
)

func BuildPrompt(kind internal.FieldKind, text string) (string, error) {
	switch kind {
	case internal.CompanyName:
		return fmt.Sprintf(companyNamePrompt, text), nil
	case internal.JobTitle:
		return fmt.Sprintf(jobTitlePrompt, text), nil
	default:
		return "", fmt.Errorf("unsupported field kind: %s", kind)
	}
}
