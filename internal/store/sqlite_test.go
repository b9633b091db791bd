package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvhoang/dayplan/internal/model"
	"github.com/nvhoang/dayplan/internal/store"
	"github.com/nvhoang/dayplan/tests/testutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestTodoCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	due := day(2025, time.March, 15)
	dueTime := time.Date(2025, time.March, 15, 8, 30, 0, 0, time.UTC)
	end := day(2025, time.December, 31)

	todo := model.Todo{
		ID:                "t1",
		Title:             "morning run",
		Description:       "5k around the park",
		DueDate:           &due,
		DueTime:           &dueTime,
		Starred:           true,
		ReminderEnabled:   true,
		RecurringType:     model.RecurringDaily,
		RecurrenceEndDate: &end,
		ShowInCalendar:    true,
		SortOrder:         3,
		ColorID:           2,
		TextureID:         1,
		FlagColor:         "red",
	}
	require.NoError(t, st.CreateTodo(ctx, todo))

	got, err := st.GetTodoByID(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, todo.Title, got.Title)
	assert.Equal(t, todo.Description, got.Description)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	require.NotNil(t, got.DueTime)
	assert.True(t, got.DueTime.Equal(dueTime))
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
	assert.True(t, got.Starred)
	assert.True(t, got.ReminderEnabled)
	assert.Equal(t, model.RecurringDaily, got.RecurringType)
	require.NotNil(t, got.RecurrenceEndDate)
	assert.True(t, got.RecurrenceEndDate.Equal(end))
	assert.True(t, got.ShowInCalendar)
	assert.Equal(t, 3, got.SortOrder)
	assert.Nil(t, got.ParentRecurringTodoID)
	assert.Nil(t, got.SubtypeID)
	assert.Equal(t, 2, got.ColorID)
	assert.Equal(t, 1, got.TextureID)
	assert.Equal(t, "red", got.FlagColor)
	assert.Equal(t, model.SubtypeKind(""), got.SubtypeKind)
}

func TestTodoCreateRequiresTitle(t *testing.T) {
	st := testutil.NewTestStore(t)
	err := st.CreateTodo(context.Background(), model.Todo{Title: "   "})
	assert.Error(t, err)
}

func TestGetTodoByIDNotFound(t *testing.T) {
	st := testutil.NewTestStore(t)
	_, err := st.GetTodoByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateTodoRejectsInstances(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	anchor := day(2025, time.January, 1)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "tpl", Title: "habit", DueDate: &anchor,
		RecurringType: model.RecurringDaily, ShowInCalendar: true,
	}))
	onDay := day(2025, time.March, 15)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "inst", Title: "habit", DueDate: &onDay, Completed: true,
		RecurringType: model.RecurringNone, ShowInCalendar: true,
		ParentRecurringTodoID: strPtr("tpl"),
	}))

	err := st.UpdateTodo(ctx, model.Todo{ID: "inst", Title: "renamed"})
	assert.Error(t, err)

	// The template itself stays editable.
	require.NoError(t, st.UpdateTodo(ctx, model.Todo{
		ID: "tpl", Title: "renamed habit", DueDate: &anchor,
		RecurringType: model.RecurringDaily, ShowInCalendar: true,
	}))
	got, err := st.GetTodoByID(ctx, "tpl")
	require.NoError(t, err)
	assert.Equal(t, "renamed habit", got.Title)
}

func TestInstanceDayUniqueIndex(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	anchor := day(2025, time.January, 1)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "tpl", Title: "habit", DueDate: &anchor,
		RecurringType: model.RecurringDaily, ShowInCalendar: true,
	}))

	morning := time.Date(2025, time.March, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.March, 15, 20, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "i1", Title: "habit", DueDate: &morning, Completed: true,
		ParentRecurringTodoID: strPtr("tpl"),
	}))

	// Same template, same calendar day, different time: rejected.
	err := st.CreateTodo(ctx, model.Todo{
		ID: "i2", Title: "habit", DueDate: &evening, Completed: true,
		ParentRecurringTodoID: strPtr("tpl"),
	})
	assert.Error(t, err)
}

func TestFindInstanceForDay(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	anchor := day(2025, time.January, 1)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "tpl", Title: "habit", DueDate: &anchor,
		RecurringType: model.RecurringDaily, ShowInCalendar: true,
	}))
	onDay := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "inst", Title: "habit", DueDate: &onDay, Completed: true,
		ParentRecurringTodoID: strPtr("tpl"),
	}))

	found, err := st.FindInstanceForDay(ctx, "tpl", day(2025, time.March, 15))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "inst", found.ID)

	// Any instant within the day maps to the same bucket.
	found, err = st.FindInstanceForDay(ctx, "tpl", time.Date(2025, time.March, 15, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, found)

	found, err = st.FindInstanceForDay(ctx, "tpl", day(2025, time.March, 16))
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDeleteSubtypeCascadesToTodos(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	require.NoError(t, st.CreateSubtype(ctx, model.Subtype{
		ID: "sub", Name: "Fitness", Kind: model.SubtypeHabit, ShowInCalendar: true,
	}))
	due := day(2025, time.March, 15)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "t1", Title: "run", DueDate: &due,
		RecurringType: model.RecurringDueDate, SubtypeID: strPtr("sub"),
	}))

	require.NoError(t, st.DeleteSubtype(ctx, "sub"))

	_, err := st.GetTodoByID(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTemplateCascadesToInstances(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	anchor := day(2025, time.January, 1)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "tpl", Title: "habit", DueDate: &anchor,
		RecurringType: model.RecurringDaily,
	}))
	onDay := day(2025, time.March, 15)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{
		ID: "inst", Title: "habit", DueDate: &onDay, Completed: true,
		ParentRecurringTodoID: strPtr("tpl"),
	}))

	require.NoError(t, st.DeleteTodo(ctx, "tpl"))

	_, err := st.GetTodoByID(ctx, "inst")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetTodosFilters(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	require.NoError(t, st.CreateSubtype(ctx, model.Subtype{ID: "h", Name: "Health", Kind: model.SubtypeHabit}))
	require.NoError(t, st.CreateSubtype(ctx, model.Subtype{ID: "l", Name: "Groceries", Kind: model.SubtypeList}))

	due := day(2025, time.March, 15)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{ID: "t1", Title: "run", DueDate: &due, SubtypeID: strPtr("h"), ShowInCalendar: true}))
	require.NoError(t, st.CreateTodo(ctx, model.Todo{ID: "t2", Title: "milk", DueDate: &due, SubtypeID: strPtr("l"), ShowInCalendar: false}))
	require.NoError(t, st.CreateTodo(ctx, model.Todo{ID: "t3", Title: "loose", DueDate: &due, ShowInCalendar: true, Completed: true}))

	habitKind := model.SubtypeHabit
	byKind, err := st.GetTodos(ctx, store.TodoFilter{Kind: &habitKind})
	require.NoError(t, err)
	require.Len(t, byKind, 1)
	assert.Equal(t, "t1", byKind[0].ID)
	assert.Equal(t, model.SubtypeHabit, byKind[0].SubtypeKind)

	shown := true
	inCalendar, err := st.GetTodos(ctx, store.TodoFilter{ShowInCalendar: &shown})
	require.NoError(t, err)
	assert.Len(t, inCalendar, 2)

	done := true
	completed, err := st.GetTodos(ctx, store.TodoFilter{Completed: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "t3", completed[0].ID)
}

func TestGetTodosOrderedBySortOrder(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	due := day(2025, time.March, 15)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{ID: "b", Title: "second", DueDate: &due, SortOrder: 2}))
	require.NoError(t, st.CreateTodo(ctx, model.Todo{ID: "a", Title: "first", DueDate: &due, SortOrder: 1}))

	todos, err := st.GetTodos(ctx, store.TodoFilter{})
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "a", todos[0].ID)
	assert.Equal(t, "b", todos[1].ID)
}

func TestReplaceTodoIsAtomic(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	due := day(2025, time.June, 1)
	original := model.Todo{ID: "orig", Title: "someday", DueDate: &due, RecurringType: model.RecurringOneTime}
	require.NoError(t, st.CreateTodo(ctx, original))

	replacement := original
	replacement.ID = "repl"
	replacement.Completed = true

	require.NoError(t, st.ReplaceTodo(ctx, replacement, "orig"))

	_, err := st.GetTodoByID(ctx, "orig")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetTodoByID(ctx, "repl")
	assert.NoError(t, err)
}

func TestReplaceTodoRollsBackWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	due := day(2025, time.June, 1)
	create := model.Todo{ID: "new", Title: "someday", DueDate: &due, RecurringType: model.RecurringOneTime}

	err := st.ReplaceTodo(ctx, create, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	// The insert must not survive the failed delete.
	_, err = st.GetTodoByID(ctx, "new")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetCompleted(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	due := day(2025, time.June, 1)
	require.NoError(t, st.CreateTodo(ctx, model.Todo{ID: "t1", Title: "call", DueDate: &due}))

	at := time.Date(2025, time.June, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, st.SetCompleted(ctx, "t1", true, &at))

	got, err := st.GetTodoByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(at))

	require.NoError(t, st.SetCompleted(ctx, "t1", false, nil))
	got, err = st.GetTodoByID(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)

	assert.ErrorIs(t, st.SetCompleted(ctx, "missing", true, &at), store.ErrNotFound)
}

func TestSubtypeCRUD(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	require.NoError(t, st.CreateSubtype(ctx, model.Subtype{
		ID: "s1", Name: "Fitness", Kind: model.SubtypeHabit,
		ShowInCalendar: true, ColorID: 4, Icon: "dumbbell", SortOrder: 1,
	}))

	got, err := st.GetSubtypeByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Fitness", got.Name)
	assert.Equal(t, model.SubtypeHabit, got.Kind)
	assert.True(t, got.ShowInCalendar)
	assert.Equal(t, "dumbbell", got.Icon)

	got.Name = "Health"
	require.NoError(t, st.UpdateSubtype(ctx, *got))

	subtypes, err := st.GetSubtypes(ctx)
	require.NoError(t, err)
	require.Len(t, subtypes, 1)
	assert.Equal(t, "Health", subtypes[0].Name)

	require.NoError(t, st.DeleteSubtype(ctx, "s1"))
	_, err = st.GetSubtypeByID(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
