// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/recipedelight/delight/internal/adapters/driving/tui/styles"
	"github.com/recipedelight/delight/internal/core/domain"
)

// Entry is one row of a MealList.
type Entry struct {
	ID       string
	Title    string
	Subtitle string
	Marked   bool
}

// FromMeals builds entries from full meals. Bookmarked meals are marked.
func FromMeals(meals []domain.Meal) []Entry {
	entries := make([]Entry, len(meals))
	for i := range meals {
		sub := strings.TrimSpace(meals[i].Area + " " + meals[i].Category)
		entries[i] = Entry{ID: meals[i].ID, Title: meals[i].Name, Subtitle: sub, Marked: meals[i].Bookmarked}
	}
	return entries
}

// FromSummaries builds entries from category summaries.
func FromSummaries(meals []domain.MealSummary) []Entry {
	entries := make([]Entry, len(meals))
	for i := range meals {
		entries[i] = Entry{ID: meals[i].ID, Title: meals[i].Name}
	}
	return entries
}

// FromCategories builds entries from categories. The ID is the
// category name, which is what category lookups take.
func FromCategories(cats []domain.Category) []Entry {
	entries := make([]Entry, len(cats))
	for i := range cats {
		entries[i] = Entry{ID: cats[i].Name, Title: cats[i].Name}
	}
	return entries
}

// MealList displays meals in a navigable list.
type MealList struct {
	title    string
	empty    string
	entries  []Entry
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewMealList creates a new list component.
func NewMealList(s *styles.Styles, title, empty string) *MealList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MealList{
		title:  title,
		empty:  empty,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *MealList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *MealList) Update(msg tea.Msg) (*MealList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *MealList) View() string {
	if len(l.entries) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	lines := make([]string, 0, len(l.entries)+2)
	header := l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.entries)))
	lines = append(lines, header, "")

	// Each entry takes up to two lines.
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(l.entries))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderEntry(i, &l.entries[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *MealList) renderEntry(index int, e *Entry) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := e.Title
	if title == "" {
		title = e.ID
	}
	maxTitleLen := max(l.width-10, 10)
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}
	if e.Marked {
		title += " *"
	}

	var line string
	if index == l.selected {
		line = l.styles.Selected.Render(indicator + title)
	} else {
		line = l.styles.Normal.Render(indicator + title)
	}
	if e.Subtitle != "" {
		line += "\n" + l.styles.Muted.Render("    "+e.Subtitle)
	}
	return line
}

// SetEntries replaces the list contents and keeps the selection in range.
func (l *MealList) SetEntries(entries []Entry) {
	l.entries = entries
	if l.selected >= len(entries) {
		l.selected = max(len(entries)-1, 0)
	}
}

// Entries returns the current entries.
func (l *MealList) Entries() []Entry {
	return l.entries
}

// Selected returns the index of the selected entry.
func (l *MealList) Selected() int {
	return l.selected
}

// SelectedEntry returns the selected entry, or nil if the list is empty.
func (l *MealList) SelectedEntry() *Entry {
	if len(l.entries) == 0 || l.selected < 0 || l.selected >= len(l.entries) {
		return nil
	}
	return &l.entries[l.selected]
}

// MoveUp moves selection up.
func (l *MealList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *MealList) MoveDown() {
	if l.selected < len(l.entries)-1 {
		l.selected++
	}
}

// Reset clears the entries and the selection.
func (l *MealList) Reset() {
	l.entries = nil
	l.selected = 0
}

// SetDimensions sets the component dimensions.
func (l *MealList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of entries.
func (l *MealList) Count() int {
	return len(l.entries)
}
