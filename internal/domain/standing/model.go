package standing

// Standing is one user's aggregated win/loss record within a pool and season.
// It is derived from resolved picks on demand and never persisted.
type Standing struct {
	UserID      string
	DisplayName string
	AvatarURL   string
	Rank        int
	Wins        int
	Losses      int
	Total       int
}
