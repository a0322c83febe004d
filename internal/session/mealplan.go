package session

import (
	"sync"

	"recipe-planner/internal/week"
)

// Assignment is one weekday slot of a plan snapshot.
type Assignment struct {
	Day    week.Day `json:"day"`
	Recipe string   `json:"recipe"`
}

// Empty reports whether no recipe is assigned to the slot.
func (a Assignment) Empty() bool { return a.Recipe == "" }

// WeeklyMealPlan holds at most one recipe name per weekday. Assigning a day
// discards its previous value; slots are never cleared or reconciled.
type WeeklyMealPlan struct {
	mu    sync.RWMutex
	slots [week.Count]string
}

// Set assigns recipe to day. Invalid days are ignored.
func (p *WeeklyMealPlan) Set(day week.Day, recipe string) {
	if !day.Valid() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.slots[day] = recipe
}

// Get returns the recipe assigned to day, or "" when unassigned.
func (p *WeeklyMealPlan) Get(day week.Day) string {
	if !day.Valid() {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slots[day]
}

// Assignments returns all seven slots in weekday order.
func (p *WeeklyMealPlan) Assignments() []Assignment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Assignment, 0, week.Count)
	for _, d := range week.Days {
		out = append(out, Assignment{Day: d, Recipe: p.slots[d]})
	}
	return out
}

// EmptyDays lists the days with no assignment.
func (p *WeeklyMealPlan) EmptyDays() []week.Day {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []week.Day
	for _, d := range week.Days {
		if p.slots[d] == "" {
			out = append(out, d)
		}
	}
	return out
}

// StaleDays lists assigned days whose recipe is missing from known. The plan
// itself is left untouched.
func (p *WeeklyMealPlan) StaleDays(known []string) []week.Day {
	set := make(map[string]struct{}, len(known))
	for _, name := range known {
		set[name] = struct{}{}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []week.Day
	for _, d := range week.Days {
		if p.slots[d] == "" {
			continue
		}
		if _, ok := set[p.slots[d]]; !ok {
			out = append(out, d)
		}
	}
	return out
}
