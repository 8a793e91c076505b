package espn

import (
	"strings"

	"github.com/wizix/pickem-pool/internal/domain/game"
)

const providerStatusInProgress = "STATUS_IN_PROGRESS"

type scoreboardEnvelope struct {
	Events []scoreboardEvent `json:"events"`
	Week   struct {
		Number int `json:"number"`
	} `json:"week"`
	Season struct {
		Year int `json:"year"`
	} `json:"season"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	Competitors []competitor `json:"competitors"`
	Status      struct {
		Type statusType `json:"type"`
	} `json:"status"`
}

type competitor struct {
	ID       string `json:"id"`
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Winner   bool   `json:"winner"`
	Team     struct {
		Name         string `json:"name"`
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
		Logo         string `json:"logo"`
	} `json:"team"`
}

type statusType struct {
	Name      string `json:"name"`
	Detail    string `json:"detail"`
	Completed bool   `json:"completed"`
}

type teamsEnvelope struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team teamRecord `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

type teamRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"displayName"`
	Abbreviation   string `json:"abbreviation"`
	Color          string `json:"color"`
	AlternateColor string `json:"alternateColor"`
	Logos          []struct {
		Href string `json:"href"`
	} `json:"logos"`
}

func mapProviderStatus(st statusType) (status, detail string) {
	detail = strings.TrimSpace(st.Detail)
	switch {
	case st.Completed:
		return game.StatusCompleted, detail
	case strings.EqualFold(strings.TrimSpace(st.Name), providerStatusInProgress):
		return game.StatusInProgress, detail
	default:
		return game.StatusScheduled, detail
	}
}
