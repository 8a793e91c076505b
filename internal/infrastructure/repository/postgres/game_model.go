package postgres

import (
	"time"

	"github.com/wizix/pickem-pool/internal/domain/game"
)

type gameTableModel struct {
	EventID          string     `db:"espn_event_id"`
	Name             string     `db:"name"`
	ShortName        string     `db:"short_name"`
	Week             int        `db:"week"`
	Season           int        `db:"season"`
	SeasonType       int        `db:"season_type"`
	Status           string     `db:"status"`
	StatusDetail     string     `db:"status_detail"`
	HomeTeamID       string     `db:"home_team_id"`
	HomeName         string     `db:"home_name"`
	HomeDisplayName  string     `db:"home_display_name"`
	HomeAbbreviation string     `db:"home_abbreviation"`
	HomeLogo         string     `db:"home_logo"`
	HomeScore        int        `db:"home_score"`
	HomeWinner       bool       `db:"home_winner"`
	AwayTeamID       string     `db:"away_team_id"`
	AwayName         string     `db:"away_name"`
	AwayDisplayName  string     `db:"away_display_name"`
	AwayAbbreviation string     `db:"away_abbreviation"`
	AwayLogo         string     `db:"away_logo"`
	AwayScore        int        `db:"away_score"`
	AwayWinner       bool       `db:"away_winner"`
	Kickoff          *time.Time `db:"kickoff_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func gameToTableModel(g game.Game, now time.Time) gameTableModel {
	row := gameTableModel{
		EventID:          g.EventID,
		Name:             g.Name,
		ShortName:        g.ShortName,
		Week:             g.Week,
		Season:           g.Season,
		SeasonType:       g.SeasonType,
		Status:           g.Status,
		StatusDetail:     g.StatusDetail,
		HomeTeamID:       g.Home.TeamID,
		HomeName:         g.Home.Name,
		HomeDisplayName:  g.Home.DisplayName,
		HomeAbbreviation: g.Home.Abbreviation,
		HomeLogo:         g.Home.Logo,
		HomeScore:        g.Home.Score,
		HomeWinner:       g.Home.Winner,
		AwayTeamID:       g.Away.TeamID,
		AwayName:         g.Away.Name,
		AwayDisplayName:  g.Away.DisplayName,
		AwayAbbreviation: g.Away.Abbreviation,
		AwayLogo:         g.Away.Logo,
		AwayScore:        g.Away.Score,
		AwayWinner:       g.Away.Winner,
		UpdatedAt:        now,
	}
	if !g.Kickoff.IsZero() {
		kickoff := g.Kickoff
		row.Kickoff = &kickoff
	}
	return row
}

func (row gameTableModel) toDomain() game.Game {
	g := game.Game{
		EventID:      row.EventID,
		Name:         row.Name,
		ShortName:    row.ShortName,
		Week:         row.Week,
		Season:       row.Season,
		SeasonType:   row.SeasonType,
		Status:       row.Status,
		StatusDetail: row.StatusDetail,
		Home: game.Side{
			TeamID:       row.HomeTeamID,
			Name:         row.HomeName,
			DisplayName:  row.HomeDisplayName,
			Abbreviation: row.HomeAbbreviation,
			Logo:         row.HomeLogo,
			Score:        row.HomeScore,
			Winner:       row.HomeWinner,
		},
		Away: game.Side{
			TeamID:       row.AwayTeamID,
			Name:         row.AwayName,
			DisplayName:  row.AwayDisplayName,
			Abbreviation: row.AwayAbbreviation,
			Logo:         row.AwayLogo,
			Score:        row.AwayScore,
			Winner:       row.AwayWinner,
		},
	}
	if row.Kickoff != nil {
		g.Kickoff = *row.Kickoff
	}
	return g
}
