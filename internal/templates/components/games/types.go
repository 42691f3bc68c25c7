package games

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codr1/pickupgames/internal/gamesapi"
	"github.com/codr1/pickupgames/internal/schedule"
	"github.com/codr1/pickupgames/internal/validation"
	"github.com/codr1/pickupgames/internal/viewstate"
)

// DayCard is one button of the day selector strip.
type DayCard struct {
	Key          string
	Abbreviation string
	Date         string
	Count        int
	Active       bool
}

func (c DayCard) CountLabel() string {
	if c.Count == 1 {
		return "1 game"
	}
	return fmt.Sprintf("%d games", c.Count)
}

// GameCard is the view model of one game tile.
type GameCard struct {
	ID        int64
	Sport     string
	SpotsLeft int
	Title     string
	TimeRange string
	Location  string
}

func (c GameCard) SpotsLabel() string {
	return fmt.Sprintf("%d spots left", c.SpotsLeft)
}

// Full marks games with no free spots. The label still shows the true count.
func (c GameCard) Full() bool {
	return c.SpotsLeft <= 0
}

// DayPanel holds the cards for one weekday.
type DayPanel struct {
	Key     string
	Visible bool
	Cards   []GameCard
}

// BoardData is everything the games board needs on first render.
type BoardData struct {
	DayCards     []DayCard
	Panels       []DayPanel
	SelectedDay  string
	LoadError    string
	Registration RegistrationModalData
	Roster       RosterModalData
	Notices      []viewstate.Notice
}

// FormField is one input of the registration form.
type FormField struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Error       string
	Placeholder string
}

func (f FormField) HasError() bool {
	return f.Error != ""
}

// RegistrationModalData drives the registration modal. A closed modal renders
// as an empty container.
type RegistrationModalData struct {
	Open      bool
	GameID    int64
	GameTitle string
	Fields    []FormField
}

// RosterModalData drives the roster modal.
type RosterModalData struct {
	Open      bool
	GameID    int64
	GameTitle string
}

// PlayerRow is one roster entry; only the first name is public.
type PlayerRow struct {
	FirstName string
}

// Renderer turns fetched games into view models.
type Renderer struct {
	Location     *time.Location
	GameDuration time.Duration
	Now          func() time.Time
}

func (r Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// CountByDay counts games per weekday key. Games whose time cannot be parsed
// are not counted.
func (r Renderer) CountByDay(games []gamesapi.Game) map[string]int {
	counts := make(map[string]int, len(schedule.Days))
	for _, game := range games {
		start, err := game.Start(r.Location)
		if err != nil {
			continue
		}
		counts[schedule.DayKey(start, r.Location)]++
	}
	return counts
}

type timedGame struct {
	game  gamesapi.Game
	start time.Time
}

// GroupByDay partitions games by weekday, each day in start time order.
func (r Renderer) GroupByDay(games []gamesapi.Game) map[string][]gamesapi.Game {
	timed := make(map[string][]timedGame, len(schedule.Days))
	for _, game := range games {
		start, err := game.Start(r.Location)
		if err != nil {
			continue
		}
		day := schedule.DayKey(start, r.Location)
		timed[day] = append(timed[day], timedGame{game: game, start: start})
	}
	grouped := make(map[string][]gamesapi.Game, len(timed))
	for day, entries := range timed {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].start.Before(entries[j].start)
		})
		dayGames := make([]gamesapi.Game, len(entries))
		for i, entry := range entries {
			dayGames[i] = entry.game
		}
		grouped[day] = dayGames
	}
	return grouped
}

// DayCards builds the seven cards of the current week.
func (r Renderer) DayCards(games []gamesapi.Game, selectedDay string) []DayCard {
	counts := r.CountByDay(games)
	week := schedule.CurrentWeek(r.now(), r.Location)
	cards := make([]DayCard, len(schedule.Days))
	for i, day := range schedule.Days {
		cards[i] = DayCard{
			Key:          day,
			Abbreviation: schedule.DayAbbreviations[i],
			Date:         schedule.MonthDay(week[i]),
			Count:        counts[day],
			Active:       day == selectedDay,
		}
	}
	return cards
}

// Panels builds one panel per weekday; only the selected one is visible.
func (r Renderer) Panels(games []gamesapi.Game, selectedDay string) []DayPanel {
	grouped := r.GroupByDay(games)
	panels := make([]DayPanel, len(schedule.Days))
	for i, day := range schedule.Days {
		cards := make([]GameCard, 0, len(grouped[day]))
		for _, game := range grouped[day] {
			cards = append(cards, r.GameCard(game))
		}
		panels[i] = DayPanel{Key: day, Visible: day == selectedDay, Cards: cards}
	}
	return panels
}

func (r Renderer) GameCard(game gamesapi.Game) GameCard {
	timeRange := ""
	if start, err := game.Start(r.Location); err == nil {
		timeRange = schedule.FormatTimeRange(start, r.GameDuration, r.Location)
	}
	return GameCard{
		ID:        game.ID,
		Sport:     game.SportLabel(),
		SpotsLeft: game.SpotsLeft(),
		Title:     game.Title(),
		TimeRange: timeRange,
		Location:  strings.TrimSpace(game.Location),
	}
}

// Board builds the full board from a state snapshot.
func (r Renderer) Board(snap viewstate.Snapshot, loadError string, notices []viewstate.Notice) BoardData {
	return BoardData{
		DayCards:     r.DayCards(snap.Games, snap.SelectedDay),
		Panels:       r.Panels(snap.Games, snap.SelectedDay),
		SelectedDay:  snap.SelectedDay,
		LoadError:    loadError,
		Registration: NewRegistrationModalData(snap, nil),
		Roster:       NewRosterModalData(snap),
		Notices:      notices,
	}
}

// NewRegistrationModalData builds the modal from state. values repopulates
// the form after a failed submit; nil renders an empty form.
func NewRegistrationModalData(snap viewstate.Snapshot, values validation.FormValues) RegistrationModalData {
	data := RegistrationModalData{Open: snap.RegistrationOpen, GameTitle: snap.RegisteringTitle}
	if snap.RegisteringGameID != nil {
		data.GameID = *snap.RegisteringGameID
	}
	if !data.Open {
		return data
	}
	data.Fields = make([]FormField, 0, len(validation.Rules))
	for _, rule := range validation.Rules {
		data.Fields = append(data.Fields, NewFormField(rule.Field, values[rule.Field], snap.FieldErrors[rule.Field]))
	}
	return data
}

func NewFormField(name, value, errMsg string) FormField {
	field := FormField{Name: name, Value: value, Error: errMsg, Type: "text"}
	if rule, ok := validation.RuleFor(name); ok {
		field.Label = rule.Label
	}
	switch name {
	case validation.FieldEmail:
		field.Type = "email"
		field.Placeholder = "you@example.com"
	case validation.FieldPhone:
		field.Type = "tel"
		field.Placeholder = "(555) 123-4567"
	case validation.FieldAge:
		field.Type = "number"
	}
	return field
}

func NewRosterModalData(snap viewstate.Snapshot) RosterModalData {
	return RosterModalData{Open: snap.RosterOpen, GameID: snap.RosterGameID, GameTitle: snap.RosterTitle}
}

func NewPlayerRows(players []gamesapi.Player) []PlayerRow {
	rows := make([]PlayerRow, 0, len(players))
	for _, player := range players {
		rows = append(rows, PlayerRow{FirstName: strings.TrimSpace(player.FirstName)})
	}
	return rows
}
