package inspect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"

	"github.com/hitzhangjie/mapview/pkg/mapfile"
)

const (
	cmdGroupAnnotation = "cmd_group_annotation"

	cmdGroupLayout = "1-layout"
	cmdGroupTables = "2-tables"
	cmdGroupSource = "3-source"
	cmdGroupOthers = "4-other"
	cmdGroupCobra  = "other"

	cmdGroupDelimiter = "-"

	prefix    = "mapview> "
	descShort = "mapview interactive inspection commands"
)

var inspectRootCmd = &cobra.Command{
	Use:           "help [command]",
	Short:         descShort,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	// session holds the running *InspectSession, read by the signal handler.
	session atomic.Value

	// current is the report being inspected.
	current *mapfile.Result

	errColor = color.New(color.FgRed)
)

// InspectSession is an interactive session over one parsed report.
type InspectSession struct {
	done   chan bool
	stop   sync.Once
	prefix string
	root   *cobra.Command
	last   string

	mu    sync.Mutex // guards liner, closed from the signal handler
	liner *liner.State

	defers []func()
}

// NewInspectSession creates the session and makes res the report all
// commands work on.
func NewInspectSession(res *mapfile.Result) *InspectSession {
	current = res

	fn := func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, cmd.Short)
		fmt.Fprintln(out)

		fmt.Fprintln(out, cmd.Use)
		fmt.Fprintln(out, cmd.Flags().FlagUsages())

		// commands by group
		fmt.Fprintln(out, helpMessageByGroups(cmd))
	}
	inspectRootCmd.SetHelpFunc(fn)

	s := &InspectSession{
		done:   make(chan bool),
		prefix: prefix,
		root:   inspectRootCmd,
		last:   "",
	}
	session.Store(s)
	return s
}

// CurrentSession returns the session created last, nil before the first.
func CurrentSession() *InspectSession {
	s, _ := session.Load().(*InspectSession)
	return s
}

func (s *InspectSession) Start() {
	l := liner.NewLiner()
	l.SetCompleter(completer)
	l.SetTabCompletionStyle(liner.TabPrints)
	l.SetCtrlCAborts(true)

	s.mu.Lock()
	s.liner = l
	s.mu.Unlock()

	defer func() {
		for idx := len(s.defers) - 1; idx >= 0; idx-- {
			s.defers[idx]()
		}
	}()
	defer s.closeLiner()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		txt, err := l.Prompt(s.prefix)
		if err != nil {
			if err != io.EOF && err != liner.ErrPromptAborted {
				errColor.Fprintf(os.Stderr, "read command: %v\n", err)
			}
			return
		}

		txt = strings.TrimSpace(txt)
		if len(txt) != 0 {
			s.last = txt
			l.AppendHistory(txt)
		} else {
			txt = s.last
		}

		if err := s.Exec(os.Stdout, txt); err != nil {
			errColor.Fprintf(os.Stderr, "%v\n", err)
		}
	}
}

// Exec runs one command line and writes its output to out.
func (s *InspectSession) Exec(out io.Writer, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	s.root.SetOut(out)
	s.root.SetArgs(args)
	return s.root.Execute()
}

func (s *InspectSession) AtExit(fn func()) *InspectSession {
	s.defers = append(s.defers, fn)
	return s
}

func (s *InspectSession) Stop() {
	s.stop.Do(func() { close(s.done) })
}

func (s *InspectSession) closeLiner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.liner != nil {
		s.liner.Close()
		s.liner = nil
	}
}

// Cleanup restores the terminal when the process is interrupted while a
// session is running. It may be called from any goroutine.
func Cleanup() {
	if s := CurrentSession(); s != nil {
		s.closeLiner()
	}
}

func completer(line string) []string {
	cmds := []string{}
	for _, c := range inspectRootCmd.Commands() {
		// complete cmd
		if strings.HasPrefix(c.Use, line) {
			cmds = append(cmds, strings.Split(c.Use, " ")[0])
		}
		// complete cmd's aliases
		for _, alias := range c.Aliases {
			if strings.HasPrefix(alias, line) {
				cmds = append(cmds, alias)
			}
		}
	}

	// complete region names after a command taking one
	if f := strings.Fields(line); len(f) == 2 && (f[0] == symbolsCmd.Name() || f[0] == regionsCmd.Name()) && current != nil {
		for _, name := range regionCandidates(f[0]) {
			if strings.HasPrefix(name, f[1]) {
				cmds = append(cmds, f[0]+" "+name)
			}
		}
	}
	return cmds
}

func regionCandidates(cmd string) []string {
	var names []string
	if cmd == regionsCmd.Name() {
		for _, b := range current.Map.Blocks {
			names = append(names, b.Name)
		}
		return names
	}
	for _, r := range current.Map.Regions() {
		names = append(names, r.FullName())
	}
	return names
}

// helpMessageByGroups lists the commands grouped by their group annotation.
func helpMessageByGroups(cmd *cobra.Command) string {

	// key:group, val:sorted commands in same group
	groups := map[string][]string{}
	for _, c := range cmd.Commands() {
		// ungrouped commands, cobra's help included, go to other
		groupName, ok := c.Annotations[cmdGroupAnnotation]
		if !ok {
			groupName = cmdGroupCobra
		}

		groupCmds := append(groups[groupName], fmt.Sprintf("  %-16s:%s", c.Name(), c.Short))
		sort.Strings(groupCmds)

		groups[groupName] = groupCmds
	}

	if len(groups[cmdGroupCobra]) != 0 {
		groups[cmdGroupOthers] = append(groups[cmdGroupOthers], groups[cmdGroupCobra]...)
	}
	delete(groups, cmdGroupCobra)

	// groups sort by their numeric prefix
	groupNames := []string{}
	for k := range groups {
		groupNames = append(groupNames, k)
	}
	sort.Strings(groupNames)

	buf := bytes.Buffer{}
	for _, groupName := range groupNames {
		group := strings.Split(groupName, cmdGroupDelimiter)[1]
		buf.WriteString(fmt.Sprintf("- [%s]\n", group))

		for _, line := range groups[groupName] {
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
