package constants

import "github.com/qdm12/ipappend/internal/models"

// All possible provider values.
const (
	DataZapp   models.Provider = "datazapp"
	DataZappV2 models.Provider = "datazappv2"
)

func ProviderChoices() []models.Provider {
	return []models.Provider{
		DataZapp,
		DataZappV2,
	}
}
