package repository

import "time"

// Lead is the stored lead aggregate, including its contact history and notes.
type Lead struct {
	ID             int
	Name           string
	Email          string
	Phone          string
	Company        string
	Source         string
	Status         string
	DateAdded      time.Time
	LastContacted  time.Time
	ContactHistory []Activity
	Notes          []Note
	AIScore        int
	ScoreFactors   map[string]float64
	EstimatedValue float64
	ContractValue  *float64
}

// Activity is one entry of a lead's contact history. Newest entries come first.
type Activity struct {
	ID          string
	Type        string
	Action      string
	Outcome     string
	Description string
	Date        time.Time
	Objection   *Objection
}

// Objection records the reason a prospect pushed back.
type Objection struct {
	Type    string
	Details string
}

// Note is a free-text note on a lead.
type Note struct {
	ID        string
	Content   string
	Date      time.Time
	UpdatedAt *time.Time
}

// Clone returns a deep copy so callers never share slices with the store.
func (l Lead) Clone() Lead {
	out := l
	if l.ContactHistory != nil {
		out.ContactHistory = make([]Activity, len(l.ContactHistory))
		for i, a := range l.ContactHistory {
			if a.Objection != nil {
				obj := *a.Objection
				a.Objection = &obj
			}
			out.ContactHistory[i] = a
		}
	}
	if l.Notes != nil {
		out.Notes = make([]Note, len(l.Notes))
		for i, n := range l.Notes {
			if n.UpdatedAt != nil {
				ts := *n.UpdatedAt
				n.UpdatedAt = &ts
			}
			out.Notes[i] = n
		}
	}
	if l.ScoreFactors != nil {
		out.ScoreFactors = make(map[string]float64, len(l.ScoreFactors))
		for k, v := range l.ScoreFactors {
			out.ScoreFactors[k] = v
		}
	}
	if l.ContractValue != nil {
		v := *l.ContractValue
		out.ContractValue = &v
	}
	return out
}

// DealValue is the value used for prioritising: the signed contract value
// when present, the estimate otherwise.
func (l Lead) DealValue() float64 {
	if l.ContractValue != nil && *l.ContractValue > l.EstimatedValue {
		return *l.ContractValue
	}
	return l.EstimatedValue
}

// LatestActivity returns the most recent activity by date.
func (l Lead) LatestActivity() (Activity, bool) {
	var latest Activity
	found := false
	for _, a := range l.ContactHistory {
		if !found || a.Date.After(latest.Date) {
			latest = a
			found = true
		}
	}
	return latest, found
}

// LatestNoteDate returns the date of the most recent note.
func (l Lead) LatestNoteDate() (time.Time, bool) {
	var latest time.Time
	for _, n := range l.Notes {
		if n.Date.After(latest) {
			latest = n.Date
		}
	}
	return latest, !latest.IsZero()
}
