package list

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tick/internal/model"
)

// fakeStore records saves and can be told to fail.
type fakeStore struct {
	items []model.Item
	saves int
	err   error
}

func (s *fakeStore) Load() ([]model.Item, error) { return s.items, nil }

func (s *fakeStore) Save(items []model.Item) error {
	if s.err != nil {
		return s.err
	}
	s.items = items
	s.saves++
	return nil
}

func newEngine(t *testing.T) (*Engine, *fakeStore) {
	t.Helper()
	st := &fakeStore{}
	e, err := New(st, zap.NewNop())
	require.NoError(t, err)
	return e, st
}

func names(e *Engine) []string {
	items := e.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

// assertDense checks the central ordering invariant: Order values are
// exactly 0..N-1 in display order.
func assertDense(t *testing.T, e *Engine) {
	t.Helper()
	for i, it := range e.Items() {
		assert.Equal(t, i, it.Order, "item %q has rank %d at position %d", it.Name, it.Order, i)
	}
}

func TestAddDeduplicatesNormalizedNames(t *testing.T) {
	e, _ := newEngine(t)

	res := e.Add("Milk", Config{})
	require.False(t, res.Skipped)
	assert.Equal(t, "Milk", res.Item.Name)
	assert.Equal(t, 1, res.Item.Quantity)
	assert.False(t, res.Item.Done)

	for _, dup := range []string{"milk", " MILK ", "Milk"} {
		assert.True(t, e.Add(dup, Config{}).Skipped, "expected %q to be skipped", dup)
	}
	assert.Equal(t, 1, e.Len())
}

func TestAddSkipsEmptyNames(t *testing.T) {
	e, st := newEngine(t)

	assert.True(t, e.Add("", Config{}).Skipped)
	assert.True(t, e.Add("   ", Config{}).Skipped)
	assert.True(t, e.Add("\t\n", Config{}).Skipped)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 0, st.saves, "a skipped add must not persist")
}

func TestAddTrimsName(t *testing.T) {
	e, _ := newEngine(t)

	res := e.Add("  Eggs  ", Config{})
	require.False(t, res.Skipped)
	assert.Equal(t, "Eggs", res.Item.Name)
}

func TestTopInsertPolicy(t *testing.T) {
	e, _ := newEngine(t)
	cfg := Config{InsertAtTop: true}

	e.Add("A", cfg)
	e.Add("B", cfg)
	e.Add("C", cfg)

	assert.Equal(t, []string{"C", "B", "A"}, names(e))
	assertDense(t, e)
}

func TestBottomAppendPolicy(t *testing.T) {
	e, _ := newEngine(t)

	e.Add("A", Config{})
	e.Add("B", Config{})
	e.Add("C", Config{})

	assert.Equal(t, []string{"A", "B", "C"}, names(e))
	assertDense(t, e)
}

func TestAddManyDedupsAgainstExistingAndBatch(t *testing.T) {
	e, st := newEngine(t)
	e.Add("milk", Config{})
	savesBefore := st.saves

	n := e.AddMany([]string{"Milk", "Bread", "Bread"}, Config{})

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"milk", "Bread"}, names(e))
	assert.Equal(t, savesBefore+1, st.saves, "a batch is one save")
	assertDense(t, e)
}

func TestAddManyAppendsEvenWithTopInsert(t *testing.T) {
	e, _ := newEngine(t)
	e.Add("Existing", Config{})

	e.AddMany([]string{"A", "B"}, Config{InsertAtTop: true})

	assert.Equal(t, []string{"Existing", "A", "B"}, names(e))
}

func TestAddManyDropsEmptyTokens(t *testing.T) {
	e, st := newEngine(t)

	n := e.AddMany([]string{"", "  ", "Jam"}, Config{})
	assert.Equal(t, 1, n)

	saves := st.saves
	assert.Equal(t, 0, e.AddMany([]string{"", "jam"}, Config{}))
	assert.Equal(t, saves, st.saves, "an all-skipped batch must not persist")
}

func TestToggle(t *testing.T) {
	e, _ := newEngine(t)
	it := e.Add("Milk", Config{}).Item

	require.NoError(t, e.Toggle(it.ID))
	assert.True(t, e.Items()[0].Done)

	require.NoError(t, e.Toggle(it.ID))
	assert.False(t, e.Items()[0].Done)
}

func TestToggleUnknownID(t *testing.T) {
	e, _ := newEngine(t)
	assert.ErrorIs(t, e.Toggle(uuid.New()), ErrNotFound)
}

func TestQuantityFloor(t *testing.T) {
	e, st := newEngine(t)
	it := e.Add("Milk", Config{}).Item
	saves := st.saves

	require.NoError(t, e.AdjustQuantity(it.ID, -1))
	assert.Equal(t, 1, e.Items()[0].Quantity, "quantity must not drop below 1")
	assert.Equal(t, saves, st.saves, "a rejected delta must not persist")

	require.NoError(t, e.AdjustQuantity(it.ID, 3))
	assert.Equal(t, 4, e.Items()[0].Quantity)

	require.NoError(t, e.AdjustQuantity(it.ID, -4))
	assert.Equal(t, 4, e.Items()[0].Quantity, "a delta landing at zero is rejected, not clamped")

	require.NoError(t, e.AdjustQuantity(it.ID, -3))
	assert.Equal(t, 1, e.Items()[0].Quantity)

	assert.ErrorIs(t, e.AdjustQuantity(uuid.New(), 1), ErrNotFound)
}

func TestRenameSkipsUniquenessCheck(t *testing.T) {
	e, _ := newEngine(t)
	e.Add("Milk", Config{})
	it := e.Add("Bread", Config{}).Item

	// Rename does not guard against collisions; only adds do.
	require.NoError(t, e.Rename(it.ID, "Milk"))
	assert.Equal(t, []string{"Milk", "Milk"}, names(e))

	assert.ErrorIs(t, e.Rename(uuid.New(), "x"), ErrNotFound)
}

func TestDeleteRenumbersSurvivors(t *testing.T) {
	e, _ := newEngine(t)
	for _, n := range []string{"A", "B", "C", "D"} {
		e.Add(n, Config{})
	}
	second := e.Items()[1]

	e.Delete([]uuid.UUID{second.ID})

	assert.Equal(t, []string{"A", "C", "D"}, names(e))
	assertDense(t, e)
}

func TestDeleteSeveral(t *testing.T) {
	e, _ := newEngine(t)
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		e.Add(n, Config{})
	}
	items := e.Items()

	e.Delete([]uuid.UUID{items[0].ID, items[2].ID, items[4].ID})

	assert.Equal(t, []string{"B", "D"}, names(e))
	assertDense(t, e)
}

func TestMoveRenumbers(t *testing.T) {
	e, _ := newEngine(t)
	for _, n := range []string{"A", "B", "C", "D", "E"} {
		e.Add(n, Config{})
	}

	require.NoError(t, e.Move(4, 0))

	assert.Equal(t, []string{"E", "A", "B", "C", "D"}, names(e))
	assert.Equal(t, 0, e.Items()[0].Order)
	assertDense(t, e)
}

func TestMoveDownward(t *testing.T) {
	e, _ := newEngine(t)
	for _, n := range []string{"A", "B", "C", "D"} {
		e.Add(n, Config{})
	}

	require.NoError(t, e.Move(0, 2))

	assert.Equal(t, []string{"B", "C", "A", "D"}, names(e))
	assertDense(t, e)
}

func TestMoveOutOfRange(t *testing.T) {
	e, st := newEngine(t)
	e.Add("A", Config{})
	e.Add("B", Config{})
	saves := st.saves

	assert.ErrorIs(t, e.Move(-1, 0), ErrOutOfRange)
	assert.ErrorIs(t, e.Move(0, 2), ErrOutOfRange)
	assert.ErrorIs(t, e.Move(5, 1), ErrOutOfRange)

	assert.Equal(t, []string{"A", "B"}, names(e), "a rejected move must not mutate")
	assert.Equal(t, saves, st.saves)
}

func TestMoveSamePositionIsNoop(t *testing.T) {
	e, st := newEngine(t)
	e.Add("A", Config{})
	saves := st.saves

	require.NoError(t, e.Move(0, 0))
	assert.Equal(t, saves, st.saves)
}

func TestClear(t *testing.T) {
	e, st := newEngine(t)
	e.Add("A", Config{})
	e.Add("B", Config{})

	e.Clear()

	assert.Equal(t, 0, e.Len())
	assert.Empty(t, st.items)
}

func TestInsertClampsAndDedups(t *testing.T) {
	e, _ := newEngine(t)
	e.Add("A", Config{})
	e.Add("B", Config{})

	it := model.New("C")
	res := e.Insert(99, it)
	require.False(t, res.Skipped)
	assert.Equal(t, []string{"A", "B", "C"}, names(e))
	assertDense(t, e)

	assert.True(t, e.Insert(0, model.New("a")).Skipped, "insert honors the dedup guard")
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	e, st := newEngine(t)
	e.Add("A", Config{})
	st.err = errors.New("disk full")

	res := e.Add("B", Config{})

	require.False(t, res.Skipped)
	assert.Equal(t, []string{"A", "B"}, names(e), "memory keeps the mutation on save failure")
	assert.Equal(t, []string{"A"}, storeNames(st), "store still has the last good state")

	// next successful save reconverges
	st.err = nil
	e.Add("C", Config{})
	assert.Equal(t, []string{"A", "B", "C"}, storeNames(st))
}

func storeNames(st *fakeStore) []string {
	out := make([]string, 0, len(st.items))
	for _, it := range st.items {
		out = append(out, it.Name)
	}
	return out
}

func TestNewHealsSparseOrders(t *testing.T) {
	base := time.Now()
	st := &fakeStore{items: []model.Item{
		{ID: uuid.New(), Name: "C", Quantity: 1, Order: 9, CreatedAt: base},
		{ID: uuid.New(), Name: "A", Quantity: 1, Order: 2, CreatedAt: base.Add(time.Second)},
		{ID: uuid.New(), Name: "B", Quantity: 1, Order: 2, CreatedAt: base.Add(2 * time.Second)},
	}}
	e, err := New(st, zap.NewNop())
	require.NoError(t, err)

	// rank first, creation time breaks the tie
	assert.Equal(t, []string{"A", "B", "C"}, names(e))
	assertDense(t, e)
}

func TestOrderStaysDenseAcrossMixedMutations(t *testing.T) {
	e, _ := newEngine(t)
	e.AddMany([]string{"A", "B", "C", "D"}, Config{})
	e.Add("E", Config{InsertAtTop: true})
	require.NoError(t, e.Move(1, 3))
	e.Delete([]uuid.UUID{e.Items()[2].ID})
	e.Add("F", Config{})

	assertDense(t, e)
}
