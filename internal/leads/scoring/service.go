package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"mlm_sales_backend/internal/leads/domain"
	"mlm_sales_backend/internal/leads/ports"
	"mlm_sales_backend/internal/leads/repository"
	"mlm_sales_backend/platform/logger"
)

const (
	// Base score - leads start at 30 and factors add/subtract from this.
	baseScore = 30.0

	maxOutcomeContribution = 15.0
)

// stageScores reflects how far a lead has travelled down the pipeline.
var stageScores = map[string]float64{
	domain.PipelineStageNewLeads:              0,
	domain.PipelineStageInitialContact:        5,
	domain.PipelineStagePresentationScheduled: 10,
	domain.PipelineStagePresented:             15,
	domain.PipelineStageFollowUp:              12,
	domain.PipelineStageProposalSent:          18,
	domain.PipelineStageNegotiation:           22,
	domain.PipelineStageClosedWon:             30,
	domain.PipelineStageClosedLost:            -30,
}

// sourceScoreTable is matched top to bottom and the first hit wins, so the
// penalty rows come first: "purchased list" is a purchased lead.
var sourceScoreTable = []struct {
	keywords []string
	score    float64
}{
	{[]string{"purchased", "bought"}, -2},
	{[]string{"cold", "outbound"}, -1},
	// Warm: somebody vouched for us
	{[]string{"referral", "referred", "friend", "family"}, 6},
	{[]string{"event", "party", "meetup", "workshop"}, 5},
	{[]string{"website", "inbound", "landing"}, 4},
	{[]string{"email", "newsletter"}, 3},
	{[]string{"social", "facebook", "instagram", "linkedin", "tiktok"}, 2},
	{[]string{"csv_import", "import", "list"}, 0},
}

// Result holds scoring output and factor details.
type Result struct {
	Score   int
	Factors map[string]float64
}

// Service computes lead scores.
type Service struct {
	appointments ports.AppointmentStatsReader
	log          *logger.Logger
	now          func() time.Time
}

// New creates a new scoring service.
func New(appointments ports.AppointmentStatsReader, log *logger.Logger) *Service {
	if appointments == nil {
		appointments = ports.NoAppointments{}
	}
	return &Service{appointments: appointments, log: log, now: time.Now}
}

// Score computes the lead's score using its current appointment statistics.
// Appointment lookups that fail degrade to no appointment factor.
func (s *Service) Score(ctx context.Context, lead repository.Lead) Result {
	now := s.now()
	stats, err := s.appointments.StatsForLead(ctx, lead.ID, now)
	if err != nil {
		if s.log != nil {
			s.log.Warn("appointment stats unavailable for scoring", "leadId", lead.ID, "error", err)
		}
		stats = ports.AppointmentStats{}
	}
	return Compute(lead, stats, now)
}

// Apply scores the lead and writes the result onto it.
func (s *Service) Apply(ctx context.Context, lead *repository.Lead) {
	result := s.Score(ctx, *lead)
	lead.AIScore = result.Score
	lead.ScoreFactors = result.Factors
}

// Compute is the pure scoring heuristic.
func Compute(lead repository.Lead, stats ports.AppointmentStats, now time.Time) Result {
	score := baseScore
	factors := map[string]float64{}

	score += addFactor(factors, "stage", stageScores[lead.Status])
	score += addFactor(factors, "activity", scoreActivityCount(lead.ContactHistory))
	score += addFactor(factors, "outcomes", scoreOutcomes(lead.ContactHistory))
	score += addFactor(factors, "recency", scoreRecency(lastInteraction(lead), now))
	score += addFactor(factors, "value", scoreValue(lead.DealValue()))
	score += addFactor(factors, "source", scoreSource(lead.Source))
	score += addFactor(factors, "notes", scoreNotes(lead.Notes))
	score += addFactor(factors, "objection", scoreObjection(lead.ContactHistory))
	score += addFactor(factors, "appointments", scoreAppointments(stats))

	return Result{Score: clampScore(score), Factors: factors}
}

// Tier buckets a score the way the lead table colours it.
func Tier(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 70:
		return "high"
	case score >= 40:
		return "medium"
	default:
		return "low"
	}
}

// IsHot flags leads worth calling today.
func IsHot(score int) bool {
	return score >= 80
}

func addFactor(factors map[string]float64, key string, value float64) float64 {
	if math.Abs(value) < 0.01 {
		return 0
	}
	factors[key] = math.Round(value*10) / 10
	return value
}

func lastInteraction(lead repository.Lead) time.Time {
	last := lead.LastContacted
	if a, ok := lead.LatestActivity(); ok && a.Date.After(last) {
		last = a.Date
	}
	if d, ok := lead.LatestNoteDate(); ok && d.After(last) {
		last = d
	}
	if last.IsZero() {
		last = lead.DateAdded
	}
	return last
}

func scoreActivityCount(history []repository.Activity) float64 {
	switch n := len(history); {
	case n >= 5:
		return 6
	case n >= 2:
		return 4
	case n == 1:
		return 2
	default:
		return 0
	}
}

func scoreOutcomes(history []repository.Activity) float64 {
	score := 0.0
	for _, a := range history {
		switch a.Outcome {
		case domain.OutcomePositive:
			score += 4
		case domain.OutcomeNegative:
			score -= 6
		}
	}
	return clampFloat(score, -maxOutcomeContribution, maxOutcomeContribution)
}

func scoreRecency(last, now time.Time) float64 {
	if last.IsZero() {
		return 0
	}
	days := now.Sub(last).Hours() / 24
	switch {
	case days <= 1:
		return 8
	case days <= 3:
		return 5
	case days <= 7:
		return 2
	case days <= 14:
		return 0
	case days <= 30:
		return -4
	default:
		return -8
	}
}

func scoreValue(value float64) float64 {
	switch {
	case value >= 50000:
		return 6
	case value >= 25000:
		return 4
	case value >= 10000:
		return 2
	default:
		return 0
	}
}

func scoreSource(source string) float64 {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return 0
	}
	for _, entry := range sourceScoreTable {
		if containsAny(source, entry.keywords) {
			return entry.score
		}
	}
	return 0
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func scoreNotes(notes []repository.Note) float64 {
	switch {
	case len(notes) >= 3:
		return 3
	case len(notes) >= 1:
		return 1
	default:
		return 0
	}
}

// scoreObjection penalises an objection nobody has answered yet: one that is
// newer than the last positive conversation.
func scoreObjection(history []repository.Activity) float64 {
	var lastObjection, lastPositive time.Time
	for _, a := range history {
		if a.Objection != nil && a.Date.After(lastObjection) {
			lastObjection = a.Date
		}
		if a.Outcome == domain.OutcomePositive && a.Objection == nil && a.Date.After(lastPositive) {
			lastPositive = a.Date
		}
	}
	if lastObjection.IsZero() || !lastObjection.After(lastPositive) {
		return 0
	}
	return -4
}

func scoreAppointments(stats ports.AppointmentStats) float64 {
	if stats.Total == 0 {
		return 0
	}

	score := 0.0
	if stats.Upcoming > 0 {
		score += 4
	}
	score += math.Min(float64(stats.Completed)*2, 6)
	score -= math.Min(float64(stats.NoShow)*2, 4)
	return score
}

func clampScore(value float64) int {
	rounded := int(math.Round(value))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func clampFloat(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
