package analytics

import (
	"fmt"
	"math"
	"slices"
	"time"

	apptrepo "mlm_sales_backend/internal/appointments/repository"
	appttransport "mlm_sales_backend/internal/appointments/transport"
	"mlm_sales_backend/internal/leads/domain"
	leadrepo "mlm_sales_backend/internal/leads/repository"
)

const (
	day            = 24 * time.Hour
	weeksPerMonth  = 4.3
	topSourceCount = 5
	unknownSource  = "Unknown"
)

// conversionStages is the funnel the stage-to-stage rates walk through.
var conversionStages = []string{
	domain.PipelineStageNewLeads,
	domain.PipelineStageInitialContact,
	domain.PipelineStagePresentationScheduled,
	domain.PipelineStagePresented,
	domain.PipelineStageFollowUp,
	domain.PipelineStageClosedWon,
}

type PipelineMetrics struct {
	AverageTimeInPipeline float64 `json:"averageTimeInPipeline"`
	Velocity              float64 `json:"velocity"`
	ActiveLeads           int     `json:"activeLeads"`
	TotalValue            float64 `json:"totalValue"`
}

type MonthVolume struct {
	Month     string `json:"month"`
	New       int    `json:"new"`
	Converted int    `json:"converted"`
	Lost      int    `json:"lost"`
}

type AppointmentMetrics struct {
	Total                     int     `json:"total"`
	Completed                 int     `json:"completed"`
	NoShow                    int     `json:"noShow"`
	Cancelled                 int     `json:"cancelled"`
	ShowRate                  float64 `json:"showRate"`
	CompletionRate            float64 `json:"completionRate"`
	AppointmentConversionRate float64 `json:"appointmentConversionRate"`
	UpcomingCount             int     `json:"upcomingCount"`
}

type SourcePerformance struct {
	Source  string  `json:"source"`
	WinRate float64 `json:"winRate"`
	Total   int     `json:"total"`
	Won     int     `json:"won"`
}

type ClosingMetrics struct {
	ClosingPercentage    float64             `json:"closingPercentage"`
	OverallClosingRate   float64             `json:"overallClosingRate"`
	AverageDealSize      float64             `json:"averageDealSize"`
	TotalWon             int                 `json:"totalWon"`
	TotalLost            int                 `json:"totalLost"`
	TopPerformingSources []SourcePerformance `json:"topPerformingSources"`
}

type DailyTrend struct {
	Date         string `json:"date"`
	Leads        int    `json:"leads"`
	Appointments int    `json:"appointments"`
	Conversions  int    `json:"conversions"`
}

// Dashboard is everything the analytics page renders.
type Dashboard struct {
	ConversionRates    map[string]float64 `json:"conversionRates"`
	PipelineMetrics    PipelineMetrics    `json:"pipelineMetrics"`
	LeadVolumeTrends   []MonthVolume      `json:"leadVolumeTrends"`
	AppointmentMetrics AppointmentMetrics `json:"appointmentMetrics"`
	ClosingMetrics     ClosingMetrics     `json:"closingMetrics"`
	TrendData          []DailyTrend       `json:"trendData"`
}

// Build derives the dashboard from a snapshot of leads and appointments.
func Build(leads []leadrepo.Lead, appts []apptrepo.Appointment, now time.Time) Dashboard {
	return Dashboard{
		ConversionRates:    ConversionRates(leads),
		PipelineMetrics:    Pipeline(leads, now),
		LeadVolumeTrends:   VolumeTrends(leads, now),
		AppointmentMetrics: Appointments(appts, leads, now),
		ClosingMetrics:     Closing(leads),
		TrendData:          DailyTrends(leads, appts, now),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// percent is part/whole as a percentage rounded to one decimal, or 0
// when whole is empty.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

// ConversionRates is keyed by stage: the share of the previous stage's
// count, plus "overall" for Closed Won against the whole funnel.
func ConversionRates(leads []leadrepo.Lead) map[string]float64 {
	counts := make(map[string]int, len(conversionStages))
	for _, l := range leads {
		counts[l.Status]++
	}

	rates := make(map[string]float64, len(conversionStages))
	funnel := counts[conversionStages[0]]
	for i := 1; i < len(conversionStages); i++ {
		stage := conversionStages[i]
		rates[stage] = percent(counts[stage], counts[conversionStages[i-1]])
		funnel += counts[stage]
	}
	rates["overall"] = percent(counts[domain.PipelineStageClosedWon], funnel)
	return rates
}

func Pipeline(leads []leadrepo.Lead, now time.Time) PipelineMetrics {
	var (
		m          PipelineMetrics
		closedDays float64
		closed     int
		recent     int
	)
	for _, l := range leads {
		age := now.Sub(l.DateAdded).Hours() / 24
		if domain.IsClosed(l.Status) {
			closedDays += age
			closed++
		} else {
			m.ActiveLeads++
		}
		if age <= 30 {
			recent++
		}
		if l.ContractValue != nil {
			m.TotalValue += *l.ContractValue
		}
	}
	if closed > 0 {
		m.AverageTimeInPipeline = round1(closedDays / float64(closed))
	}
	if recent > 0 {
		m.Velocity = round1(float64(recent) / weeksPerMonth)
	}
	return m
}

// VolumeTrends buckets leads by the month they were added, covering the
// twelve months up to and including now's month.
func VolumeTrends(leads []leadrepo.Lead, now time.Time) []MonthVolume {
	out := make([]MonthVolume, 0, 12)
	index := make(map[string]int, 12)
	for i := 11; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location()).Format("2006-01")
		index[month] = len(out)
		out = append(out, MonthVolume{Month: month})
	}

	for _, l := range leads {
		i, ok := index[l.DateAdded.In(now.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		out[i].New++
		switch l.Status {
		case domain.PipelineStageClosedWon:
			out[i].Converted++
		case domain.PipelineStageClosedLost:
			out[i].Lost++
		}
	}
	return out
}

func Appointments(appts []apptrepo.Appointment, leads []leadrepo.Lead, now time.Time) AppointmentMetrics {
	m := AppointmentMetrics{Total: len(appts)}
	withAppointments := make(map[int]bool)
	for _, a := range appts {
		withAppointments[a.LeadID] = true
		switch a.Status {
		case appttransport.StatusCompleted:
			m.Completed++
		case appttransport.StatusNoShow:
			m.NoShow++
		case appttransport.StatusCancelled:
			m.Cancelled++
		}
		if appttransport.IsActive(a.Status) && a.ScheduledAt.After(now) {
			m.UpcomingCount++
		}
	}
	m.ShowRate = percent(m.Total-m.NoShow-m.Cancelled, m.Total)
	m.CompletionRate = percent(m.Completed, m.Total)

	var booked, won int
	for _, l := range leads {
		if !withAppointments[l.ID] {
			continue
		}
		booked++
		if l.Status == domain.PipelineStageClosedWon {
			won++
		}
	}
	m.AppointmentConversionRate = percent(won, booked)
	return m
}

func Closing(leads []leadrepo.Lead) ClosingMetrics {
	var (
		m        ClosingMetrics
		dealSum  float64
		dealSize int
		sources  []SourcePerformance
		bySource = make(map[string]int)
	)
	for _, l := range leads {
		won := l.Status == domain.PipelineStageClosedWon
		switch {
		case won:
			m.TotalWon++
			if l.ContractValue != nil && *l.ContractValue != 0 {
				dealSum += *l.ContractValue
				dealSize++
			}
		case l.Status == domain.PipelineStageClosedLost:
			m.TotalLost++
		}

		source := l.Source
		if source == "" {
			source = unknownSource
		}
		i, ok := bySource[source]
		if !ok {
			i = len(sources)
			bySource[source] = i
			sources = append(sources, SourcePerformance{Source: source})
		}
		sources[i].Total++
		if won {
			sources[i].Won++
		}
	}

	m.ClosingPercentage = percent(m.TotalWon, m.TotalWon+m.TotalLost)
	m.OverallClosingRate = percent(m.TotalWon, len(leads))
	if dealSize > 0 {
		m.AverageDealSize = math.Round(dealSum / float64(dealSize))
	}

	for i := range sources {
		sources[i].WinRate = percent(sources[i].Won, sources[i].Total)
	}
	slices.SortStableFunc(sources, func(a, b SourcePerformance) int {
		switch {
		case a.WinRate > b.WinRate:
			return -1
		case a.WinRate < b.WinRate:
			return 1
		}
		return 0
	})
	if len(sources) > topSourceCount {
		sources = sources[:topSourceCount]
	}
	m.TopPerformingSources = sources
	if m.TopPerformingSources == nil {
		m.TopPerformingSources = []SourcePerformance{}
	}
	return m
}

// DailyTrends counts the last 30 UTC days, oldest first. A conversion is a
// Closed Won lead last contacted that day.
func DailyTrends(leads []leadrepo.Lead, appts []apptrepo.Appointment, now time.Time) []DailyTrend {
	const layout = "2006-01-02"
	out := make([]DailyTrend, 0, 30)
	index := make(map[string]int, 30)
	for i := 29; i >= 0; i-- {
		date := now.Add(-time.Duration(i) * day).UTC().Format(layout)
		index[date] = len(out)
		out = append(out, DailyTrend{Date: date})
	}

	bump := func(t time.Time, fn func(*DailyTrend)) {
		if i, ok := index[t.UTC().Format(layout)]; ok {
			fn(&out[i])
		}
	}
	for _, l := range leads {
		bump(l.DateAdded, func(d *DailyTrend) { d.Leads++ })
		if l.Status == domain.PipelineStageClosedWon && !l.LastContacted.IsZero() {
			bump(l.LastContacted, func(d *DailyTrend) { d.Conversions++ })
		}
	}
	for _, a := range appts {
		bump(a.ScheduledAt, func(d *DailyTrend) { d.Appointments++ })
	}
	return out
}

// Insight is a short observation shown above the charts.
type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Insights turns dashboard thresholds into advice.
func Insights(d Dashboard) []Insight {
	out := make([]Insight, 0, 3)

	overall := d.ConversionRates["overall"]
	switch {
	case overall > 15:
		out = append(out, Insight{
			Type:    "success",
			Title:   "Strong Conversion Rate",
			Message: fmt.Sprintf("Your overall conversion rate of %.1f%% is above industry average.", overall),
		})
	case overall < 5:
		out = append(out, Insight{
			Type:    "warning",
			Title:   "Low Conversion Rate",
			Message: fmt.Sprintf("Consider reviewing your lead qualification process. Current rate: %.1f%%", overall),
		})
	}

	if avg := d.PipelineMetrics.AverageTimeInPipeline; avg > 60 {
		out = append(out, Insight{
			Type:    "info",
			Title:   "Long Pipeline Cycle",
			Message: fmt.Sprintf("Average time in pipeline is %.1f days. Consider streamlining your process.", avg),
		})
	}

	if show := d.AppointmentMetrics.ShowRate; show < 70 {
		out = append(out, Insight{
			Type:    "warning",
			Title:   "Low Appointment Show Rate",
			Message: fmt.Sprintf("Show rate is %.1f%%. Consider implementing reminder systems.", show),
		})
	}
	return out
}
