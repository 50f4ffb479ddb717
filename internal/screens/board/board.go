// Package board is the main screen: the partner creature, its experience
// bar and the task list.
package board

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/todomon/internal/progression"
	"github.com/abhisek/todomon/internal/router"
	"github.com/abhisek/todomon/internal/screens/addtask"
	"github.com/abhisek/todomon/internal/screens/history"
	"github.com/abhisek/todomon/internal/session"
	"github.com/abhisek/todomon/internal/store"
	"github.com/abhisek/todomon/internal/tasks"
	"github.com/abhisek/todomon/internal/ui/components"
	"github.com/abhisek/todomon/internal/ui/layout"
	"github.com/abhisek/todomon/internal/ui/theme"
)

// updateMsg wraps a session result read from Session.Updates.
type updateMsg struct {
	msg session.Msg
}

// waitForUpdate blocks on the session channel in a command goroutine and
// hands the result back to the update loop, which owns the session.
func waitForUpdate(ch <-chan session.Msg) tea.Cmd {
	return func() tea.Msg {
		return updateMsg{msg: <-ch}
	}
}

// BoardScreen shows the logged-in user's game.
type BoardScreen struct {
	sess   *session.Session
	events store.EventRepo
	list   components.TaskList
	view   session.View
	flash  string
	errMsg string
}

var _ router.Screen = (*BoardScreen)(nil)
var _ router.KeyHintProvider = (*BoardScreen)(nil)
var _ router.StatusProvider = (*BoardScreen)(nil)

// New creates the board for an open session. events may be nil, which
// disables the history screen.
func New(sess *session.Session, events store.EventRepo) *BoardScreen {
	b := &BoardScreen{sess: sess, events: events}
	b.refresh()
	return b
}

func (b *BoardScreen) Title() string {
	return b.sess.Username()
}

func (b *BoardScreen) Status() string {
	return fmt.Sprintf("Stage %d  %d/%d XP", b.view.Stage, b.view.Experience, b.view.Threshold)
}

func (b *BoardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Complete"},
		{Key: "a", Description: "Add task"},
	}
	if b.events != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "q", Description: "Quit"})
}

func (b *BoardScreen) Init() tea.Cmd {
	return waitForUpdate(b.sess.Updates())
}

func (b *BoardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		if err := b.sess.Handle(msg.msg); err != nil {
			b.errMsg = err.Error()
		}
		b.refresh()
		for _, out := range b.sess.TakeAdvances() {
			b.flash = describeAdvance(out)
		}
		if _, ok := msg.msg.(session.ResetDueMsg); ok {
			b.flash = theme.Hint.Render("A new day! Daily tasks are ready again.")
		}
		return b, waitForUpdate(b.sess.Updates())

	case addtask.SubmitMsg:
		b.addTask(msg)
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return b, tea.Quit
		case "a":
			today := tasks.DateOf(b.sess.Now())
			return b, func() tea.Msg { return router.PushScreenMsg{Screen: addtask.New(today)} }
		case "h":
			if b.events == nil {
				return b, nil
			}
			screen := history.New(b.events, b.sess.Username())
			return b, func() tea.Msg { return router.PushScreenMsg{Screen: screen} }
		case "enter", "space", "x":
			b.complete()
			return b, nil
		}
		b.list = b.list.Update(msg)
	}
	return b, nil
}

func (b *BoardScreen) refresh() {
	b.view = b.sess.View()
	b.list.SetTasks(b.view.Tasks)
	if b.view.SaveErr == nil && strings.HasPrefix(b.errMsg, "save progress") {
		b.errMsg = ""
	}
}

func (b *BoardScreen) addTask(msg addtask.SubmitMsg) {
	idx, err := b.sess.AddTask(msg.Name, msg.Recurring, msg.Due)
	var saveErr *session.SaveError
	switch {
	case err == nil:
		b.errMsg = ""
	case errors.As(err, &saveErr):
		b.errMsg = err.Error()
	default:
		b.errMsg = err.Error()
		return
	}
	b.refresh()
	b.list.Selected = idx
	b.flash = theme.Hint.Render(fmt.Sprintf("Added %q.", msg.Name))
}

func (b *BoardScreen) complete() {
	if len(b.view.Tasks) == 0 {
		return
	}
	res, err := b.sess.CompleteTask(b.list.Selected)
	if err != nil {
		if errors.Is(err, tasks.ErrAlreadyCompleted) {
			b.flash = theme.Hint.Render("Already done. Come back tomorrow!")
			return
		}
		b.errMsg = err.Error()
		return
	}
	b.errMsg = ""
	if res.SaveErr != nil {
		b.errMsg = res.SaveErr.Error()
	}
	b.refresh()
	b.flash = b.describe(res)
}

func (b *BoardScreen) describe(res session.CompleteResult) string {
	gained := theme.Gained.Render(fmt.Sprintf("+%d XP", res.Award))
	if adv := describeAdvance(res.Outcome); adv != "" {
		return gained + "  " + adv
	}
	return gained
}

func describeAdvance(out progression.Outcome) string {
	switch out.Kind {
	case progression.OutcomeEvolved:
		return theme.Evolved.Render(fmt.Sprintf(
			"Your partner evolved! #%d → #%d (stage %d)", out.From, out.To, out.StageAfter))
	case progression.OutcomeReassigned:
		return theme.Evolved.Render(fmt.Sprintf(
			"Fully evolved! A new partner #%d joins you.", out.To))
	case progression.OutcomeDeferred:
		return theme.Hint.Render(fmt.Sprintf("Stage %d! Checking what comes next...", out.StageAfter))
	}
	return ""
}

func (b *BoardScreen) View(width, height int) string {
	v := b.view
	cardWidth := min(width-4, 72)

	name := theme.CreatureName.Render(v.CreatureName())
	lines := []string{
		name + theme.Hint.Render(fmt.Sprintf("  #%d", v.CreatureID)),
		theme.Body.Render(fmt.Sprintf("Stage %d", v.Stage)) + "  " + chainLabel(v.ChainStatus),
	}
	if v.Creature != nil && v.Creature.ImageURL != "" {
		lines = append(lines, theme.Hint.Render(v.Creature.ImageURL))
	}
	lines = append(lines, "", components.NewExperienceBar("XP", v.Experience, v.Threshold, cardWidth-6).View())
	card := theme.Card.Width(cardWidth).Render(strings.Join(lines, "\n"))

	var status []string
	if b.flash != "" {
		status = append(status, b.flash)
	}
	if b.errMsg != "" {
		status = append(status, theme.ErrorText.Render(b.errMsg))
	}

	listHeight := height - lipgloss.Height(card) - len(status) - 3
	sections := []string{card}
	sections = append(sections, status...)
	sections = append(sections, "", b.list.View(cardWidth, listHeight))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func chainLabel(s progression.ChainStatus) string {
	switch s {
	case progression.ChainPending:
		return theme.Hint.Render("looking up evolutions...")
	case progression.ChainUnavailable:
		return theme.Hint.Render("evolutions unknown")
	}
	return ""
}
