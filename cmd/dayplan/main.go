package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nvhoang/dayplan/internal/engine"
	"github.com/nvhoang/dayplan/internal/logger"
	"github.com/nvhoang/dayplan/internal/model"
	"github.com/nvhoang/dayplan/internal/store"
)

const dayFormat = "2006-01-02"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		fmt.Fprintln(os.Stderr, "initializing logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening store:", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	clock := engine.SystemClock{}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "agenda":
		err = runAgenda(ctx, st, clock, args)
	case "week":
		err = runWeek(ctx, st, clock, args)
	case "add":
		err = runAdd(ctx, st, args)
	case "done":
		err = runDone(ctx, st, clock, args)
	case "undone":
		err = runUndone(ctx, st, clock, args)
	case "subtypes":
		err = runSubtypes(ctx, st)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: dayplan [-config path] <command> [flags]

commands:
  agenda   print the visible todos for a day
  week     print per-day task counts for a seven-day strip
  add      create a todo
  done     mark a todo complete for a day
  undone   mark a todo incomplete for a day
  subtypes list habit/plan/list containers
`)
}

func parseDay(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.Parse(dayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

func runAgenda(ctx context.Context, st store.Store, clock engine.Clock, args []string) error {
	fs := flag.NewFlagSet("agenda", flag.ExitOnError)
	dateArg := fs.String("date", "", "target day, YYYY-MM-DD (default today)")
	statusArg := fs.String("status", "all", "status filter: all, active, completed")
	typeArg := fs.String("type", "all", "type filter: all, habits, plans, lists")
	fs.Parse(args)

	target, err := parseDay(*dateArg, clock.Today())
	if err != nil {
		return err
	}

	todos, err := st.GetTodos(ctx, store.TodoFilter{})
	if err != nil {
		return err
	}

	now := clock.Now()
	visible := engine.VisibleTodos(todos, target, clock.Today(), now,
		engine.StatusFilter(*statusArg), engine.TypeFilter(*typeArg))

	fmt.Println(headerStyle.Render(target.Format("Mon Jan 2, 2006")))
	if len(visible) == 0 {
		fmt.Println(dimStyle.Render("  nothing scheduled"))
		return nil
	}
	for i := range visible {
		fmt.Println(formatTodo(&visible[i]))
	}
	return nil
}

func formatTodo(t *model.Todo) string {
	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = doneStyle.Render(title)
	}

	line := fmt.Sprintf("  %s %s", check, title)
	if t.DueTime != nil {
		line += dimStyle.Render("  " + t.DueTime.Format("15:04"))
	}
	if t.SubtypeKind != "" {
		line += "  " + badgeStyle.Render(string(t.SubtypeKind))
	}
	if t.Starred {
		line += "  *"
	}
	if t.IsTemplate() {
		line += dimStyle.Render(fmt.Sprintf("  (%s)", t.RecurringType))
	}
	return line
}

func runWeek(ctx context.Context, st store.Store, clock engine.Clock, args []string) error {
	fs := flag.NewFlagSet("week", flag.ExitOnError)
	startArg := fs.String("start", "", "first day of the strip, YYYY-MM-DD (default today)")
	fs.Parse(args)

	start, err := parseDay(*startArg, clock.Today())
	if err != nil {
		return err
	}

	todos, err := st.GetTodos(ctx, store.TodoFilter{})
	if err != nil {
		return err
	}

	counts := engine.DayCounts(todos, start, 7, clock.Today())
	day := model.DayOf(start)
	for i, n := range counts {
		badge := dimStyle.Render("-")
		if n > 0 {
			badge = badgeStyle.Render(fmt.Sprintf("%d", n))
		}
		fmt.Printf("%s  %s\n", day.AddDate(0, 0, i).Format("Mon 01-02"), badge)
	}
	return nil
}

func runAdd(ctx context.Context, st store.Store, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "todo title (required)")
	desc := fs.String("desc", "", "description")
	dueArg := fs.String("due", "", "due date, YYYY-MM-DD")
	timeArg := fs.String("time", "", "due time, HH:MM")
	recur := fs.String("recur", "none", "recurrence: none, dueDate, oneTime, daily, weekly, monthly, yearly")
	endArg := fs.String("end", "", "recurrence end date, YYYY-MM-DD")
	subtypeID := fs.String("subtype", "", "owning subtype id")
	starred := fs.Bool("star", false, "star the todo")
	hidden := fs.Bool("no-calendar", false, "exclude from calendar views")
	fs.Parse(args)

	if *title == "" {
		return fmt.Errorf("add: -title is required")
	}

	todo := model.Todo{
		Title:          *title,
		Description:    *desc,
		RecurringType:  model.RecurringType(*recur),
		Starred:        *starred,
		ShowInCalendar: !*hidden,
	}
	if *dueArg != "" {
		d, err := parseDay(*dueArg, time.Time{})
		if err != nil {
			return err
		}
		todo.DueDate = &d
	}
	if *timeArg != "" {
		tod, err := time.Parse("15:04", *timeArg)
		if err != nil {
			return fmt.Errorf("invalid time %q (want HH:MM)", *timeArg)
		}
		if todo.DueDate != nil {
			tod = model.CombineDayTime(*todo.DueDate, tod)
		}
		todo.DueTime = &tod
	}
	if *endArg != "" {
		d, err := parseDay(*endArg, time.Time{})
		if err != nil {
			return err
		}
		todo.RecurrenceEndDate = &d
	}
	if *subtypeID != "" {
		if _, err := st.GetSubtypeByID(ctx, *subtypeID); err != nil {
			return err
		}
		todo.SubtypeID = subtypeID
	}

	if err := st.CreateTodo(ctx, todo); err != nil {
		return err
	}
	fmt.Println("added", *title)
	return nil
}

func runDone(ctx context.Context, st store.Store, clock engine.Clock, args []string) error {
	fs := flag.NewFlagSet("done", flag.ExitOnError)
	dateArg := fs.String("date", "", "day being completed, YYYY-MM-DD (default today)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("done: exactly one todo id required")
	}

	contextDate, err := parseDay(*dateArg, clock.Today())
	if err != nil {
		return err
	}

	todo, err := st.GetTodoByID(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	completer := engine.NewCompleter(st, clock)
	result, err := completer.Complete(ctx, todo, contextDate)
	if err != nil {
		return err
	}

	switch {
	case result.DeletedInstance:
		fmt.Println("toggled off", todo.Title, "for", model.DayOf(contextDate).Format(dayFormat))
	case result.CreatedInstance != nil && result.DeletedOriginal:
		fmt.Println("completed", todo.Title, "(moved to today)")
	case result.CreatedInstance != nil:
		fmt.Println("completed", todo.Title, "for", model.DayOf(contextDate).Format(dayFormat))
		if todo.DueDate != nil {
			next := engine.NextOccurrence(todo.RecurringType, *todo.DueDate)
			fmt.Println(dimStyle.Render("next due " + next.Format(dayFormat)))
		}
	default:
		fmt.Println("toggled", todo.Title)
	}
	return nil
}

func runUndone(ctx context.Context, st store.Store, clock engine.Clock, args []string) error {
	fs := flag.NewFlagSet("undone", flag.ExitOnError)
	dateArg := fs.String("date", "", "day being uncompleted, YYYY-MM-DD (default today)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("undone: exactly one todo id required")
	}

	contextDate, err := parseDay(*dateArg, clock.Today())
	if err != nil {
		return err
	}

	todo, err := st.GetTodoByID(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	completer := engine.NewCompleter(st, clock)
	if err := completer.Uncomplete(ctx, todo, contextDate); err != nil {
		return err
	}
	fmt.Println("uncompleted", todo.Title)
	return nil
}

func runSubtypes(ctx context.Context, st store.Store) error {
	subtypes, err := st.GetSubtypes(ctx)
	if err != nil {
		return err
	}
	if len(subtypes) == 0 {
		fmt.Println(dimStyle.Render("no subtypes"))
		return nil
	}
	for _, sub := range subtypes {
		fmt.Printf("%s  %s  %s\n", sub.ID, badgeStyle.Render(string(sub.Kind)), sub.Name)
	}
	return nil
}
