package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/isagen/emit"
)

// Report is the outcome of verifying one generation run.
type Report struct {
	Source  string
	Classes []*emit.Class
	Issues  []Issue
}

// GenerateReport runs the lint over classes and collects the result.
func GenerateReport(source string, classes []*emit.Class) *Report {
	return &Report{
		Source:  source,
		Classes: classes,
		Issues:  RunLint(classes),
	}
}

// OK reports whether no issue was found.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// Err returns nil for a clean report and an error wrapping ErrLint that
// names the first issue otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}

	first := r.Issues[0]
	return fmt.Errorf("%w: %d issues, first in %q: %s",
		ErrLint, len(r.Issues), first.Instruction, first.Message)
}

// IssuesFor returns the issues of one instruction.
func (r *Report) IssuesFor(instruction string) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Instruction == instruction {
			issues = append(issues, issue)
		}
	}
	return issues
}

// WriteReport writes the report as tables.
func (r *Report) WriteReport(w io.Writer) {
	classTable := table.NewWriter()
	classTable.SetTitle(fmt.Sprintf("Instructions generated from %s", r.Source))
	classTable.AppendHeader(table.Row{"#", "Instruction", "Class", "Print Name", "Operands", "Slots", "Issues"})

	slots := 0
	for i, c := range r.Classes {
		slots += c.SlotCount()
		ops := make([]string, 0, len(c.Operands))
		for _, op := range c.Operands {
			ops = append(ops, op.String())
		}

		classTable.AppendRow(table.Row{
			i,
			c.Name,
			c.ClassName,
			c.PrintName,
			strings.Join(ops, " "),
			c.SlotCount(),
			len(r.IssuesFor(c.Name)),
		})
	}
	classTable.AppendFooter(table.Row{"", "", "", "", "Total", slots, len(r.Issues)})

	fmt.Fprintln(w, classTable.Render())

	if r.OK() {
		return
	}

	issueTable := table.NewWriter()
	issueTable.SetTitle("Issues")
	issueTable.AppendHeader(table.Row{"Type", "Instruction", "Operand", "Message"})
	for _, issue := range r.Issues {
		op := "-"
		if issue.Operand >= 0 {
			op = fmt.Sprint(issue.Operand)
		}
		issueTable.AppendRow(table.Row{issue.Type, issue.Instruction, op, issue.Message})
	}

	fmt.Fprintln(w, issueTable.Render())
}
