package ui

import (
	"fmt"
	"io"
	"os"

	"go-worklogger/internal/timeparse"
	"go-worklogger/internal/worklog"

	"github.com/pterm/pterm"
)

// Terminal renders a processing cycle with pterm.
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out}
}

func (t *Terminal) println(a ...any) {
	fmt.Fprintln(t.out, a...)
}

func (t *Terminal) Welcome() {
	t.println()
	t.println(pterm.Bold.Sprint(pterm.Cyan("Jira Work Logger")))
	t.println(pterm.Gray("Describe your work in plain language, e.g. \"2h on PROJ-123 fixing bugs yesterday\"."))
	t.println(pterm.Gray("Type /voice (or v) to speak, /help for commands, exit to quit."))
	t.println()
}

func (t *Terminal) Help() {
	t.println(pterm.Gray("Available commands:"))
	for _, cmd := range AvailableCommands {
		t.println(pterm.Cyan("  "+cmd.Name) + pterm.Gray("  "+cmd.Description))
	}
	t.println()
}

func (t *Terminal) Status(msg string) {
	t.println(pterm.Gray(msg))
}

// Progress runs a spinner until done is called. Without styling the
// message is printed once instead.
func (t *Terminal) Progress(msg string) func() {
	if pterm.RawOutput {
		t.Status(msg)
		return func() {}
	}
	spinner, err := pterm.DefaultSpinner.
		WithWriter(t.out).
		WithRemoveWhenDone(true).
		Start(msg)
	if err != nil {
		t.Status(msg)
		return func() {}
	}
	return func() { _ = spinner.Stop() }
}

func (t *Terminal) Error(msg string) {
	t.println(pterm.Red("⚠ " + msg))
}

func (t *Terminal) NoTickets() {
	t.println(pterm.Yellow("No JIRA tickets identified in your input."))
	t.println(pterm.Gray("Mention a ticket key such as PROJ-123 and the time spent."))
}

func (t *Terminal) Submitting(e worklog.Entry) {
	t.println(fmt.Sprintf("Logging %s to %s on %s...", e.TimeSpent, e.TicketID, e.WorkDate))
}

func (t *Terminal) Result(o worklog.Outcome) {
	if o.Success {
		t.println(pterm.Green("✅ Logged " + o.Entry.TimeSpent + " to " + o.TicketID))
		return
	}
	msg := "❌ Failed to log work to " + o.TicketID + ": " + o.Err
	if o.UnrecognizedTicket {
		msg += " (unrecognized ticket format)"
	}
	t.println(pterm.Red(msg))
}

// Summary prints a table of every attempt with the total logged time.
func (t *Terminal) Summary(outcomes []worklog.Outcome) {
	if len(outcomes) == 0 {
		return
	}

	tableData := pterm.TableData{
		{"Ticket", "Time", "Date", "Comment", "Status"},
	}

	total := 0
	for _, o := range outcomes {
		status := pterm.FgRed.Sprint("failed")
		if o.Success {
			status = pterm.FgGreen.Sprint("OK")
			total += timeparse.Parse(o.Entry.TimeSpent)
		}
		tableData = append(tableData, []string{
			pterm.FgCyan.Sprint(o.TicketID),
			pterm.FgYellow.Sprint(o.Entry.TimeSpent),
			o.Entry.WorkDate,
			o.Entry.Comment,
			status,
		})
	}

	tableData = append(tableData, []string{
		pterm.Bold.Sprint("TOTAL"),
		pterm.Bold.Sprint(pterm.FgYellow.Sprint(timeparse.Format(total))),
		"", "", "",
	})

	t.println()
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Srender()
	if err != nil {
		return
	}
	t.println(table)
	t.println()
}

func PrintFarewell() {
	pterm.Println()
	pterm.Println(pterm.Gray("Bye!"))
	pterm.Println()
}
