package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"record-linker/internal/source"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

func seed(t *testing.T, url string, records []map[string]any) {
	t.Helper()

	_, err := source.New(afs.New(), nil).Save(context.Background(), url, "", records)
	require.NoError(t, err)
}

func upload(t *testing.T, url, content string) {
	t.Helper()

	require.NoError(t, afs.New().Upload(context.Background(), url, 0o644, strings.NewReader(content)))
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage: record-linker")

	code, _, stderr = runCLI(t, "merge")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "merge"`)

	code, stdout, _ := runCLI(t, "help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "commands:")

	code, _, stderr = runCLI(t, "join")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "-plan is required")
}

func TestRun_Join(t *testing.T) {
	const base = "mem://localhost/cli-join/"

	seed(t, base+"orders.json", []map[string]any{
		{"id": "o-1", "customerId": "C-1"},
		{"id": "o-2", "customerId": "c-2"},
		{"id": "o-3", "customerId": "c-9"},
	})
	seed(t, base+"customers.msgpack.zst", []map[string]any{
		{"id": "c-1", "name": "Ann"},
		{"id": "c-2", "name": "Bob"},
	})
	seed(t, base+"shipments.yaml", []map[string]any{
		{"orderId": "o-1", "carrier": "dhl"},
	})

	upload(t, base+"plan.yaml", `
joins:
  - name: customers
    primary: {url: "`+base+`orders.json", key: customerId}
    secondary: {url: "`+base+`customers.msgpack.zst", key: id}
    target: customer
    output: `+base+`enriched.json
    key_categories: fold-case
  - name: shipments
    primary: {url: "`+base+`enriched.json", key: id}
    secondary: {url: "`+base+`shipments.yaml", key: orderId}
    target: shipment
`)

	code, stdout, stderr := runCLI(t, "join", "-plan", base+"plan.yaml")
	require.Equal(t, exitOK, code, stderr)

	enriched, err := source.New(nil, nil).Load(context.Background(), base+"enriched.json", "")
	require.NoError(t, err)
	require.Len(t, enriched, 3)
	assert.Equal(t, "Ann", enriched[0]["customer"].(map[string]any)["name"])
	assert.Equal(t, "Bob", enriched[1]["customer"].(map[string]any)["name"])
	assert.NotContains(t, enriched[2], "customer")

	// the second join has no output and prints to stdout
	var printed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &printed))
	require.Len(t, printed, 3)
	assert.Equal(t, "dhl", printed[0]["shipment"].(map[string]any)["carrier"])
	assert.Equal(t, "Ann", printed[0]["customer"].(map[string]any)["name"])
	assert.NotContains(t, printed[1], "shipment")

	assert.Contains(t, stderr, "join finished")
	assert.Contains(t, stderr, "join=customers")
	assert.Contains(t, stderr, "matched=2")
	assert.Contains(t, stderr, "digest=")
}

func TestRun_JoinSelected(t *testing.T) {
	const base = "mem://localhost/cli-select/"

	seed(t, base+"a.json", []map[string]any{{"k": "x"}})
	seed(t, base+"b.json", []map[string]any{{"k": "x", "v": 1}})

	upload(t, base+"plan.yaml", `
joins:
  - {name: first, primary: {url: "`+base+`a.json", key: k}, secondary: {url: "`+base+`b.json", key: k}, target: t, output: "`+base+`first.json"}
  - {name: second, primary: {url: "`+base+`missing.json", key: k}, secondary: {url: "`+base+`b.json", key: k}, target: t, output: "`+base+`second.json"}
`)

	code, _, stderr := runCLI(t, "join", "-plan", base+"plan.yaml", "-join", "first")
	require.Equal(t, exitOK, code, stderr)

	code, _, stderr = runCLI(t, "join", "-plan", base+"plan.yaml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "join failed")
	assert.Contains(t, stderr, "missing.json")

	code, _, stderr = runCLI(t, "join", "-plan", base+"plan.yaml", "-join", "third")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "no such join")
}

func TestRun_JoinInvalidPlan(t *testing.T) {
	const url = "mem://localhost/cli-invalid/plan.yaml"

	upload(t, url, `
joins:
  - {primary: {url: a.json, key: k}, secondary: {url: b.json}, target: t}
`)

	code, stdout, _ := runCLI(t, "join", "-plan", url)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stdout, "error: [join-1] secondary.key: [missing_field]")
}

func TestRun_Index(t *testing.T) {
	const url = "mem://localhost/cli-index/rates.yaml"

	seed(t, url, []map[string]any{
		{"currency": "EUR", "rate": 1.08},
		{"currency": " eur", "rate": 1.09},
		{"rate": 0},
	})

	code, stdout, stderr := runCLI(t, "index", "-in", url, "-key", "currency", "-categories", "fold-case,trim-space")
	require.Equal(t, exitOK, code, stderr)

	assert.Contains(t, stdout, "key=currency records=3 keys=1 duplicates=1 missing_keys=1 categories=fold-case|trim-space")
	assert.Contains(t, stdout, `(string) (len=3) "eur"`)
	assert.Contains(t, stdout, "1.09")

	code, _, stderr = runCLI(t, "index", "-in", url, "-key", "currency", "-categories", "fuzzy")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unknown key category")
}

func TestRun_Check(t *testing.T) {
	const base = "mem://localhost/cli-check/"

	upload(t, base+"ok.yaml", `
packages: [record-linker/store]
joins:
  - primary: {url: a.json, key: customerId, type: "*store.Order"}
    secondary: {url: b.json, key: id, type: "*store.Customer"}
    target: customer
    output: out.json
`)

	code, stdout, stderr := runCLI(t, "check", "-plan", base+"ok.yaml")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "plan ok: 1 joins")

	upload(t, base+"bad.yaml", `
packages: [record-linker/store]
joins:
  - primary: {url: a.json, key: customerID, type: "*store.Order"}
    secondary: {url: b.json, key: id, type: "*store.Customer"}
    target: customer
    output: out.json
`)

	code, stdout, _ = runCLI(t, "check", "-plan", base+"bad.yaml")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stdout, "[field_not_readable]")
	assert.Contains(t, stdout, "CustomerId")
}
