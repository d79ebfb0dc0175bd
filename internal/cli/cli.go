package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Read         *ReadCommand
	Status       *StatusCommand
	History      *HistoryCommand
	Stats        *StatsCommand
	Todo         *TodoCommand
	Achievements *AchievementsCommand
	Prefs        *PrefsCommand
	Prune        *PruneCommand
	Reset        *ResetCommand
	Serve        *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "lectern"
	parser.LongDescription = "Local documentation-reading tracker: history, streaks, XP, and achievements."

	cmds := &commands{
		Read:         &ReadCommand{globals: &globals, version: version},
		Status:       &StatusCommand{globals: &globals, version: version},
		History:      &HistoryCommand{globals: &globals, version: version},
		Stats:        &StatsCommand{globals: &globals, version: version},
		Todo:         &TodoCommand{globals: &globals, version: version},
		Achievements: &AchievementsCommand{globals: &globals, version: version},
		Prefs:        &PrefsCommand{globals: &globals, version: version},
		Prune:        &PruneCommand{globals: &globals, version: version},
		Reset:        &ResetCommand{globals: &globals, version: version},
		Serve:        &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("read", "Record a reading session", "Record a reading session for a document, awarding XP and checking achievements.", cmds.Read)
	parser.AddCommand("status", "Show level, streak, and totals", "Show reading level, XP, streak, totals, and database health.", cmds.Status)
	parser.AddCommand("history", "List recent reads", "List recent read events with optional filters.", cmds.History)
	parser.AddCommand("stats", "Show reading analytics", "Show weekly buckets, the daily heatmap, and the category breakdown.", cmds.Stats)
	parser.AddCommand("todo", "Manage the reading list", "Add, complete, remove, and list reading-list items.", cmds.Todo)
	parser.AddCommand("achievements", "List achievements", "List locked and unlocked achievements.", cmds.Achievements)
	parser.AddCommand("prefs", "Get or set reader preferences", "Get or set persisted reader preferences such as theme and font.", cmds.Prefs)
	parser.AddCommand("prune", "Delete old read events", "Delete read events older than a retention window.", cmds.Prune)
	parser.AddCommand("reset", "Delete ALL lectern data", "Delete ALL lectern data. Destructive operation with safety prompt.", cmds.Reset)
	parser.AddCommand("serve", "Start the lectern daemon", "Start the lectern daemon (local HTTP service).", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the lectern CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("lectern %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
