package linker

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-linker/options"
	"record-linker/record"
	"record-linker/store"
	"record-linker/warehouse"
)

func primaryMaps() []map[string]any {
	return []map[string]any{
		{"k": "a"},
		{"k": "b"},
		{"k": "c", "t": "untouched"},
	}
}

func secondaryMaps() []map[string]any {
	return []map[string]any{
		{"k2": "a", "v": "A1"},
		{"k2": "b", "v": "B1"},
	}
}

func TestOneToOneLinked_NoOpOnEmptyInput(t *testing.T) {
	tests := []struct {
		name      string
		primary   []map[string]any
		secondary []map[string]any
	}{
		{"nil secondary", primaryMaps(), nil},
		{"empty secondary", primaryMaps(), []map[string]any{}},
		{"nil primary", nil, secondaryMaps()},
		{"empty primary", []map[string]any{}, secondaryMaps()},
		{"both nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := slices.Clone(tt.primary)
			for i := range before {
				before[i] = record.Clone(before[i])
			}

			rep, err := Link(tt.primary, "k", "t", tt.secondary, "k2")
			require.NoError(t, err)
			assert.True(t, rep.Skipped)
			assert.Zero(t, rep.MatchedCount())
			assert.Equal(t, before, tt.primary)
		})
	}
}

func TestOneToOneLinked_NoOpDoesNotResolveFields(t *testing.T) {
	// nothing is read when there is nothing to join, so bad records pass
	primary := []any{42}
	require.NoError(t, OneToOneLinked(primary, "k", "t", []any{}, "k2"))
}

func TestOneToOneLinked_MatchCorrectness(t *testing.T) {
	primary := primaryMaps()
	secondary := secondaryMaps()

	require.NoError(t, OneToOneLinked(primary, "k", "t", secondary, "k2"))

	assert.Equal(t, secondary[0], primary[0]["t"])
	assert.Equal(t, secondary[1], primary[1]["t"])
	assert.Equal(t, "untouched", primary[2]["t"])

	// the matched record itself is attached, not a copy
	secondary[0]["v"] = "changed"
	assert.Equal(t, "changed", primary[0]["t"].(map[string]any)["v"])
}

func TestOneToOneLinked_StructuredRecords(t *testing.T) {
	orders := []*store.Order{
		store.NewOrder("o-1", "c-1", 1000),
		store.NewOrder("o-2", "c-2", 2500),
		store.NewOrder("o-3", "c-9", 300),
	}
	customers := []*store.Customer{
		store.NewCustomer("c-1", "ann@example.com", "Ann"),
		store.NewCustomer("c-2", "bob@example.com", "Bob"),
	}

	rep, err := Link(orders, "customerId", "customer", customers, "id")
	require.NoError(t, err)

	assert.Same(t, customers[0], orders[0].GetCustomer())
	assert.Same(t, customers[1], orders[1].GetCustomer())
	assert.Nil(t, orders[2].GetCustomer())

	assert.Equal(t, 3, rep.Primary)
	assert.Equal(t, 2, rep.Secondary)
	assert.Equal(t, 2, rep.Indexed)
	assert.Equal(t, 2, rep.MatchedCount())
	assert.Equal(t, []int{2}, rep.Unmatched())
}

func TestOneToOneLinked_DynamicSecondaryIntoStructured(t *testing.T) {
	orders := []*store.Order{store.NewOrder("o-1", "c-1", 1000)}
	addresses := []record.Dynamic{
		{"order": "o-1", "city": "Oslo"},
	}

	require.NoError(t, OneToOneLinked(orders, "id", "shipping", addresses, "order"))
	assert.Equal(t, "Oslo", orders[0].GetShipping()["city"])
}

func TestOneToOneLinked_StructValuesMutatedInPlace(t *testing.T) {
	shipments := []warehouse.Shipment{
		{ID: 1, AddressID: 10},
		{ID: 2, AddressID: 20},
		{ID: 3, AddressID: 10},
	}
	addresses := []*warehouse.Address{
		{ID: 10, City: "Oslo"},
		{ID: 20, City: "Bergen"},
	}

	require.NoError(t, OneToOneLinked(shipments, "address_id", "address", addresses, "id"))

	assert.Same(t, addresses[0], shipments[0].Address)
	assert.Same(t, addresses[1], shipments[1].Address)
	assert.Same(t, addresses[0], shipments[2].Address)
}

func TestOneToOneLinked_StructValueSecondary(t *testing.T) {
	shipments := []*warehouse.Shipment{{ID: 1, Carrier: "dhl"}}
	carriers := []warehouse.Carrier{{Code: "dhl", Name: "DHL Express"}}

	require.NoError(t, OneToOneLinked(shipments, "carrier", "carrierInfo", carriers, "code"))
	assert.Equal(t, carriers[0], shipments[0].CarrierInfo)
}

func TestIndexByField_LastWriteWins(t *testing.T) {
	secondary := []map[string]any{
		{"k2": "x", "v": 1},
		{"k2": "y", "v": 10},
		{"k2": "x", "v": 2},
		{"k2": "x", "v": 3},
	}

	idx, err := IndexByField(secondary, "k2")
	require.NoError(t, err)

	rec, ok := idx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 3, rec.(map[string]any)["v"])

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, idx.Duplicates())
	assert.Equal(t, "k2", idx.KeyField())
	assert.ElementsMatch(t, []any{"x", "y"}, idx.Keys())
}

func TestIndexByField_MissingKeysSkipped(t *testing.T) {
	secondary := []record.Dynamic{
		{"k2": "x"},
		{"other": "y"},
		{"k2": nil},
	}

	idx, err := IndexByField(secondary, "k2")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 2, idx.MissingKeys())

	_, ok := idx.Lookup(nil)
	assert.False(t, ok)
}

func TestIndexByField_Empty(t *testing.T) {
	idx, err := IndexByField[map[string]any](nil, "k")
	require.NoError(t, err)
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Keys())

	var nilIdx *Index
	assert.Zero(t, nilIdx.Len())
	assert.Empty(t, nilIdx.KeyField())
	assert.Zero(t, nilIdx.Duplicates())
	assert.Zero(t, nilIdx.MissingKeys())
	assert.Empty(t, nilIdx.Keys())
	_, ok := nilIdx.Lookup("x")
	assert.False(t, ok)
}

func TestIndexByField_Failures(t *testing.T) {
	_, err := IndexByField([]any{map[string]any{"k": "a"}, 7}, "k")
	require.ErrorIs(t, err, record.ErrResolution)

	re, ok := record.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 1, re.Index)

	_, err = IndexByField([]map[string]any{{"k": []string{"a"}}}, "k")
	require.ErrorIs(t, err, record.ErrKey)
}

func TestIndex_Range(t *testing.T) {
	idx, err := IndexByField(secondaryMaps(), "k2")
	require.NoError(t, err)

	visited := 0
	idx.Range(func(_, _ any) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestOneToOneLinked_Idempotent(t *testing.T) {
	once := primaryMaps()
	twice := primaryMaps()
	secondary := secondaryMaps()

	require.NoError(t, OneToOneLinked(once, "k", "t", secondary, "k2"))
	require.NoError(t, OneToOneLinked(twice, "k", "t", secondary, "k2"))
	require.NoError(t, OneToOneLinked(twice, "k", "t", secondary, "k2"))

	assert.Equal(t, once, twice)
}

func TestOneToOneLinked_UnmatchedIsolation(t *testing.T) {
	sentinel := &warehouse.Address{ID: 99}
	shipments := []*warehouse.Shipment{
		{ID: 1, AddressID: 404, Address: sentinel},
		{ID: 2, AddressID: 405},
	}
	addresses := []*warehouse.Address{{ID: 1}}

	rep, err := Link(shipments, "address_id", "address", addresses, "id")
	require.NoError(t, err)

	assert.Same(t, sentinel, shipments[0].Address)
	assert.Nil(t, shipments[1].Address)
	assert.Equal(t, []int{0, 1}, rep.Unmatched())
}

func TestOneToOneLinked_PrimaryWithoutKeyIsUnmatched(t *testing.T) {
	primary := []map[string]any{{"t": "keep"}, {"k": nil}}

	require.NoError(t, OneToOneLinked(primary, "k", "t", secondaryMaps(), "k2"))
	assert.Equal(t, "keep", primary[0]["t"])
	assert.NotContains(t, primary[1], "t")
}

func TestOneToOneLinked_NilRecordsFail(t *testing.T) {
	primary := []map[string]any{{"k": "a"}, nil}

	err := OneToOneLinked(primary, "k", "t", secondaryMaps(), "k2")
	require.ErrorIs(t, err, record.ErrResolution)

	re, ok := record.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, record.OpRead, re.Op)
	assert.Contains(t, primary[0], "t")

	secondary := []record.Dynamic{{"k2": "a"}, nil}

	rep, err := Link(primaryMaps(), "k", "t", secondary, "k2")
	require.ErrorIs(t, err, record.ErrResolution)
	assert.Contains(t, err.Error(), `index secondary by "k2"`)
	assert.Zero(t, rep.MissingKeys)
}

// broken lacks every accessor the join needs.
type broken struct{}

func TestOneToOneLinked_FailFastKeepsEarlierWrites(t *testing.T) {
	first := map[string]any{"k": "a"}
	last := map[string]any{"k": "b"}
	primary := []any{first, broken{}, last}

	err := OneToOneLinked(primary, "k", "t", secondaryMaps(), "k2")
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrResolution)
	assert.Contains(t, err.Error(), `link "k" into "t"`)

	re, ok := record.AsError(err)
	require.True(t, ok)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, record.OpRead, re.Op)

	assert.Contains(t, first, "t", "records before the failure stay written")
	assert.NotContains(t, last, "t", "records after the failure are not visited")
}

func TestOneToOneLinked_PrevalidateMutatesNothing(t *testing.T) {
	first := map[string]any{"k": "a"}
	last := map[string]any{"k": "b"}
	primary := []any{first, broken{}, last}

	err := OneToOneLinked(primary, "k", "t", secondaryMaps(), "k2", WithPrevalidate())
	require.ErrorIs(t, err, record.ErrResolution)

	assert.NotContains(t, first, "t")
	assert.NotContains(t, last, "t")
}

func TestOneToOneLinked_PrevalidateCatchesTargetMismatch(t *testing.T) {
	orders := []*store.Order{
		store.NewOrder("o-1", "c-1", 1),
		store.NewOrder("o-2", "c-2", 1),
	}
	// the customer mutator takes *store.Customer, not a dynamic record
	customers := []map[string]any{{"id": "c-1"}, {"id": "c-2"}}

	err := OneToOneLinked(orders, "customerId", "customer", customers, "id", WithPrevalidate())
	require.ErrorIs(t, err, record.ErrResolution)
	assert.Contains(t, err.Error(), "SetCustomer takes *store.Customer")

	for _, o := range orders {
		assert.Nil(t, o.GetCustomer())
	}
}

func TestOneToOneLinked_SecondaryFailure(t *testing.T) {
	primary := primaryMaps()
	before := make([]any, len(primary))
	for i, r := range primary {
		before[i] = r["t"]
	}

	err := OneToOneLinked(primary, "k", "t", []any{map[string]any{"k2": "a"}, broken{}}, "k2")
	require.ErrorIs(t, err, record.ErrResolution)
	assert.Contains(t, err.Error(), `index secondary by "k2"`)

	for i, r := range primary {
		assert.Equal(t, before[i], r["t"])
	}
}

type guarded struct {
	Key string
}

func (g *guarded) SetTarget(any) error {
	return errors.New("target is sealed")
}

func TestOneToOneLinked_InvocationFailure(t *testing.T) {
	primary := []*guarded{{Key: "a"}}

	err := OneToOneLinked(primary, "key", "target", secondaryMaps(), "k2")
	require.ErrorIs(t, err, record.ErrInvocation)
	assert.NotErrorIs(t, err, record.ErrResolution)
	assert.Contains(t, err.Error(), "target is sealed")

	// resolution succeeds, so prevalidation cannot see invocation failures
	err = OneToOneLinked(primary, "key", "target", secondaryMaps(), "k2", WithPrevalidate())
	require.ErrorIs(t, err, record.ErrInvocation)
}

func TestOneToOneLinked_KeyCategories(t *testing.T) {
	// ids decoded from JSON are float64, struct ids are uint
	shipments := []*warehouse.Shipment{{ID: 1, AddressID: 10}}
	addresses := []map[string]any{{"id": float64(10), "city": "Oslo"}}

	require.NoError(t, OneToOneLinked(shipments, "address_id", "order", addresses, "id"))
	assert.Nil(t, shipments[0].Order, "strict equality must not match uint and float64")

	require.NoError(t, OneToOneLinked(shipments, "address_id", "order", addresses, "id",
		WithKeyCategories(options.CategoryNumber)))
	assert.Equal(t, "Oslo", shipments[0].Order["city"])

	orders := []*store.Order{store.NewOrder("o-1", "C-1", 1)}
	customers := []*store.Customer{store.NewCustomer(" c-1 ", "a@b.c", "A")}

	require.NoError(t, OneToOneLinked(orders, "customerId", "customer", customers, "id",
		WithKeyCategories(options.CategoryFoldCase|options.CategoryTrimSpace)))
	assert.Same(t, customers[0], orders[0].GetCustomer())
}

func TestOneToOneLinked_EnumKeys(t *testing.T) {
	type status string

	primary := []map[string]any{{"status": store.StatusPaid}}
	labels := []map[string]any{{"code": status("PAID"), "label": "Paid"}}

	require.NoError(t, OneToOneLinked(primary, "status", "label", labels, "code"))
	assert.NotContains(t, primary[0], "label")

	require.NoError(t, OneToOneLinked(primary, "status", "label", labels, "code",
		WithKeyCategories(options.CategoryEnumString)))
	assert.Equal(t, labels[0], primary[0]["label"])
}

func TestLinked_LeavesInputUntouched(t *testing.T) {
	orders := []*store.Order{
		store.NewOrder("o-1", "c-1", 1),
		store.NewOrder("o-2", "c-2", 1),
	}
	customers := []*store.Customer{store.NewCustomer("c-1", "a@b.c", "A")}

	out, err := Linked(orders, "customerId", "customer", customers, "id")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Nil(t, orders[0].GetCustomer())
	assert.NotSame(t, orders[0], out[0])
	assert.Same(t, customers[0], out[0].GetCustomer())
	assert.Nil(t, out[1].GetCustomer())
	assert.Equal(t, "o-2", out[1].GetId())
}

func TestLinked_Maps(t *testing.T) {
	primary := primaryMaps()

	out, err := Linked(primary, "k", "t", secondaryMaps(), "k2")
	require.NoError(t, err)

	assert.NotContains(t, primary[0], "t")
	assert.Equal(t, "A1", out[0]["t"].(map[string]any)["v"])
}

func TestLinked_FailureReturnsNil(t *testing.T) {
	first := map[string]any{"k": "a"}

	out, err := Linked([]any{first, broken{}}, "k", "t", secondaryMaps(), "k2")
	require.ErrorIs(t, err, record.ErrResolution)
	assert.Nil(t, out)
	assert.NotContains(t, first, "t")

	empty, err := Linked[map[string]any, map[string]any](nil, "k", "t", secondaryMaps(), "k2")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestApply_NilIndexStillReadsKeys(t *testing.T) {
	rep, err := Apply(primaryMaps(), "k", "t", nil)
	require.NoError(t, err)
	assert.Zero(t, rep.MatchedCount())

	_, err = Apply([]any{broken{}}, "k", "t", nil)
	require.ErrorIs(t, err, record.ErrResolution)
}

func TestLink_ReportCounts(t *testing.T) {
	secondary := []map[string]any{
		{"k2": "a"},
		{"k2": "a"},
		{"nokey": true},
		{"k2": "b"},
	}

	rep, err := Link(primaryMaps(), "k", "t", secondary, "k2")
	require.NoError(t, err)

	assert.False(t, rep.Skipped)
	assert.Equal(t, 4, rep.Secondary)
	assert.Equal(t, 2, rep.Indexed)
	assert.Equal(t, 1, rep.Duplicates)
	assert.Equal(t, 1, rep.MissingKeys)
	assert.Equal(t, []uint32{0, 1}, rep.Matched.ToArray())
}

func TestLink_LogsWithInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Link(primaryMaps(), "k", "t", secondaryMaps(), "k2", WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "link started")
	assert.Contains(t, out, "primary_rep=dynamic")
	assert.Contains(t, out, "index built")
	assert.Contains(t, out, "matched=2")
}
