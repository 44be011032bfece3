package charts

import (
	"math"
	"time"

	"bluebird/internal/core/occurrence"
)

// Placeholder scores shown until the upstream tables carry them
const (
	SentimentPlaceholder = 85
	ChurnPlaceholder     = 12
)

// KPIs are the metric cards above the charts
type KPIs struct {
	TotalOccurrences  int     `json:"total_occurrences"`
	Total24h          int     `json:"total_24h"`
	TotalVariation    int     `json:"total_variation"`
	DailyAverage      float64 `json:"daily_average"`
	AverageVariation  int     `json:"average_variation"`
	WhatsappTotal     int     `json:"whatsapp_total"`
	Whatsapp24h       int     `json:"whatsapp_24h"`
	WhatsappVariation int     `json:"whatsapp_variation"`
	EmailTotal        int     `json:"email_total"`
	Email24h          int     `json:"email_24h"`
	EmailVariation    int     `json:"email_variation"`
	PendingTotal      int     `json:"pending_total"`
	SentimentAvg      int     `json:"sentiment_avg"`
	ChurnRisk         int     `json:"churn_risk"`
}

// MetricsInput carries the window rows plus the rows of the last 48 hours,
// which feed the 24h comparisons independently of the window
type MetricsInput struct {
	Window  []occurrence.Occurrence
	Last48h []occurrence.Occurrence
	From    time.Time
	To      time.Time
	Now     time.Time
}

// Metrics computes the KPI cards
func Metrics(in MetricsInput) KPIs {
	k := KPIs{SentimentAvg: SentimentPlaceholder, ChurnRisk: ChurnPlaceholder}

	for _, r := range in.Window {
		k.TotalOccurrences++
		switch r.Channel {
		case occurrence.ChannelWhatsapp:
			k.WhatsappTotal++
		case occurrence.ChannelEmail:
			k.EmailTotal++
		}
		if r.Status == string(occurrence.StatusOpen) {
			k.PendingTotal++
		}
	}

	since24h := in.Now.Add(-24 * time.Hour)
	since48h := in.Now.Add(-48 * time.Hour)
	prev24h := 0
	for _, r := range in.Last48h {
		switch {
		case !r.CreatedAt.Before(since24h):
			k.Total24h++
			switch r.Channel {
			case occurrence.ChannelWhatsapp:
				k.Whatsapp24h++
			case occurrence.ChannelEmail:
				k.Email24h++
			}
		case !r.CreatedAt.Before(since48h):
			prev24h++
		}
	}

	periodDays := spanDays(in.From, in.To)
	if k.TotalOccurrences > 0 {
		k.DailyAverage = math.Round(float64(k.TotalOccurrences)/float64(periodDays)*10) / 10
	}
	k.TotalVariation = share(k.Total24h, k.TotalOccurrences)
	k.WhatsappVariation = share(k.Whatsapp24h, k.WhatsappTotal)
	k.EmailVariation = share(k.Email24h, k.EmailTotal)
	if prev24h > 0 {
		k.AverageVariation = int(math.Round(float64(k.Total24h-prev24h) / float64(prev24h) * 100))
	}
	return k
}

// spanDays counts calendar days between from and to in from's location, at
// least 1. A day-aligned last-7-days window is 7, not 8
func spanDays(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.In(from.Location()).Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return max(1, int(b.Sub(a).Hours()/24))
}

// share is round(part/whole*100), 0 when whole is 0
func share(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
