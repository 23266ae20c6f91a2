package parser

import (
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/ctrlgen/internal/errors"
	"github.com/toyz/ctrlgen/internal/models"
)

func analyzeSource(t *testing.T, src string) (*Package, []*models.ServiceMetadata, error) {
	t.Helper()
	pkg, err := ParseSource(token.NewFileSet(), "svc.go", src)
	require.NoError(t, err)
	services, err := NewAnalyzer().AnalyzePackage(pkg)
	return pkg, services, err
}

func TestAnalyzer_Counter(t *testing.T) {
	src := `package counter

//ctrlgen:service CounterMsg, returnval = ctrlgen.Local, proxy(trait CounterProxy)
type Counter struct{ n int }

// Add increments the counter.
//
// It never fails.
//
//ctrlgen:enum_attr[nolint]
func (c *Counter) Add(by int) { c.n += by }

// Get returns the current value.
func (c Counter) Get() int { return c.n }

func helper() {}
`
	pkg, services, err := analyzeSource(t, src)
	require.NoError(t, err)
	require.Len(t, services, 1)

	svc := services[0]
	assert.Equal(t, "Counter", svc.Name)
	assert.Equal(t, "counter", svc.PackageName)
	assert.Equal(t, "CounterMsg", svc.Config.EnumName)
	assert.True(t, svc.Config.HasReturnval())
	assert.False(t, svc.IsGeneric())
	assert.False(t, svc.IsAsync())
	assert.Equal(t, 4, svc.Location.Line)

	require.Len(t, svc.Methods, 2)
	add := svc.Methods[0]
	assert.Equal(t, "Add", add.VariantName)
	assert.Equal(t, models.ReceiverPointer, add.Receiver)
	assert.Equal(t, []string{"// Add increments the counter.", "//", "// It never fails."}, add.Docs)
	require.Len(t, add.EnumAttrs, 1)
	assert.Equal(t, "nolint", add.EnumAttrs[0].Text)
	require.Len(t, add.Args, 1)
	assert.Equal(t, "by", add.Args[0].Name)
	assert.Equal(t, "By", add.Args[0].FieldName)
	assert.Equal(t, "int", add.Args[0].Type)
	assert.False(t, add.HasReturn())

	get := svc.Methods[1]
	assert.Equal(t, models.ReceiverValue, get.Receiver)
	assert.Equal(t, "int", get.Returns)
	assert.Equal(t, []string{"// Get returns the current value."}, get.Docs)

	for _, group := range pkg.Files[0].AST.Comments {
		for _, c := range group.List {
			assert.NotContains(t, c.Text, "ctrlgen:", "directives are stripped")
		}
	}
}

func TestAnalyzer_AsyncAndContext(t *testing.T) {
	src := `package svc

import (
	stdctx "context"
)

type State struct{ hits int }

//ctrlgen:service Msg, context(st: *State)
type Svc struct{}

func (s *Svc) Ping(ctx stdctx.Context, st *State, id string) {}

func (s *Svc) Pong(st *State) {}
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)
	require.Len(t, services, 1)

	svc := services[0]
	assert.True(t, svc.IsAsync())
	assert.True(t, svc.HasContext())
	require.Len(t, svc.Methods, 2)

	ping := svc.Methods[0]
	assert.True(t, ping.Async)
	require.Len(t, ping.Args, 1)
	assert.Equal(t, "id", ping.Args[0].Name)

	pong := svc.Methods[1]
	assert.False(t, pong.Async)
	assert.Empty(t, pong.Args)

	assert.Equal(t, []models.Import{{Name: "stdctx", Path: "context"}}, svc.Imports)
}

func TestAnalyzer_UnitContext(t *testing.T) {
	src := `package svc

//ctrlgen:service Msg, context(_: struct{})
type Svc struct{}

func (s *Svc) Tick(_ struct{}, n int) {}
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)
	assert.True(t, services[0].Config.Context.IsUnit())
	require.Len(t, services[0].Methods[0].Args, 1)
}

func TestAnalyzer_GenericRenaming(t *testing.T) {
	src := `package svc

//ctrlgen:service Msg, returnval = ctrlgen.Promise
type Store[K comparable, V any] struct{ m map[K]V }

func (s *Store[A, B]) Put(key A, value []B) {}

func (s *Store[K, V]) Get(key K) V { return s.m[key] }

func (s *Store[B, A]) Swap(m map[B]A) {}
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)

	svc := services[0]
	assert.True(t, svc.IsGeneric())
	assert.Equal(t, []models.TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}}, svc.TypeParams)
	assert.Equal(t, []string{"K", "V"}, svc.TypeArgs())

	put := svc.Methods[0]
	assert.Equal(t, "K", put.Args[0].Type)
	assert.Equal(t, "[]V", put.Args[1].Type)

	get := svc.Methods[1]
	assert.Equal(t, "V", get.Returns)

	swap := svc.Methods[2]
	assert.Equal(t, "map[K]V", swap.Args[0].Type)
}

func TestAnalyzer_ToOwned(t *testing.T) {
	src := `package svc

//ctrlgen:service Msg
type Svc struct{}

//ctrlgen:arg p to_owned
//ctrlgen:arg list to_owned
//ctrlgen:arg index to_owned
//ctrlgen:arg name enum_attr[json:"name"]
func (x *Svc) Store(p *string, list []int, index map[string]int, name string) {}
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)

	args := services[0].Methods[0].Args
	require.Len(t, args, 4)

	assert.Equal(t, models.OwnedPointer, args[0].OwnedKind)
	assert.Equal(t, "string", args[0].StoredType())
	assert.Equal(t, models.OwnedSlice, args[1].OwnedKind)
	assert.Equal(t, "[]int", args[1].StoredType())
	assert.Equal(t, models.OwnedMap, args[2].OwnedKind)
	assert.Equal(t, "map[string]int", args[2].StoredType())

	assert.False(t, args[3].ToOwned)
	require.Len(t, args[3].EnumAttrs, 1)
	assert.Equal(t, `json:"name"`, args[3].EnumAttrs[0].Text)
}

func TestAnalyzer_Skip(t *testing.T) {
	src := `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Run() {}

//ctrlgen:skip
func (s *Svc) Log(format string, args ...any) (int, error) { return 0, nil }
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)
	require.Len(t, services[0].Methods, 1)
	assert.Equal(t, "Run", services[0].Methods[0].Name)
}

func TestAnalyzer_TypeGroups(t *testing.T) {
	src := `package svc

type (
	Other struct{}

	// Svc is documented.
	//ctrlgen:service Msg
	Svc struct{}
)

func (s *Svc) Run() {}

func (o Other) Run() {}
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Svc", services[0].Name)
	assert.Len(t, services[0].Methods, 1)
}

func TestAnalyzer_MultipleServices(t *testing.T) {
	src := `package svc

//ctrlgen:service AMsg
type A struct{}

func (a *A) Do() {}

//ctrlgen:service BMsg, proxy(struct BHandle)
type B struct{}

func (b *B) Do() {}
`
	_, services, err := analyzeSource(t, src)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "A", services[0].Name)
	assert.Equal(t, "B", services[1].Name)
}

func TestAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
		line int
	}{
		{
			name: "function without receiver",
			src: `package svc

//ctrlgen:skip
func Free() {}
`,
			msg:  "methods that do not accept a receiver",
			line: 3,
		},
		{
			name: "directive on method of unannotated type",
			src: `package svc

type Plain struct{}

//ctrlgen:skip
func (p *Plain) Do() {}
`,
			msg:  "which has no `ctrlgen:service` directive",
			line: 5,
		},
		{
			name: "multiple results",
			src: `package svc

//ctrlgen:service Msg, returnval = ctrlgen.Local
type Svc struct{}

func (s *Svc) Do() (int, error) { return 0, nil }
`,
			msg:  "at most one result",
			line: 6,
		},
		{
			name: "result without returnval",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do() int { return 0 }
`,
			msg:  "Specify `returnval` parameter to handle methods with return types.",
			line: 6,
		},
		{
			name: "variadic argument",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(xs ...int) {}
`,
			msg:  "variadic parameters",
			line: 6,
		},
		{
			name: "unnamed argument",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(int, string) {}
`,
			msg:  "argument 1 of 2 must be named",
			line: 6,
		},
		{
			name: "blank argument",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(a int, _ string) {}
`,
			msg:  "argument 2 of 2 cannot be `_`",
			line: 6,
		},
		{
			name: "ret in returnval mode",
			src: `package svc

//ctrlgen:service Msg, returnval = ctrlgen.Local
type Svc struct{}

func (s *Svc) Do(ret int) {}
`,
			msg:  "cannot be named literally `ret`",
			line: 6,
		},
		{
			name: "argument maps to dispatch method",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(discard bool) {}
`,
			msg:  "maps to field `Discard`",
			line: 6,
		},
		{
			name: "argument maps to a number",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(_1 int) {}
`,
			msg:  "argument `_1` maps to field `1`, which is not a valid Go identifier",
			line: 6,
		},
		{
			name: "argument maps to nothing",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(__ int) {}
`,
			msg:  "argument `__` maps to field ``, which is not a valid Go identifier",
			line: 6,
		},
		{
			name: "arguments map to one field",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) Do(user_id int, userId int) {}
`,
			msg:  "arguments `user_id` and `userId` both map to field `UserId`",
			line: 6,
		},
		{
			name: "methods map to one variant",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

func (s *Svc) DoIt() {}

func (s *Svc) doIt() {}
`,
			msg:  "methods `DoIt` and `doIt` both map to variant `DoIt`",
			line: 8,
		},
		{
			name: "send clashes with proxy",
			src: `package svc

//ctrlgen:service Msg, proxy(trait Handle)
type Svc struct{}

func (s *Svc) Send() {}
`,
			msg:  "clashes with the Send method",
			line: 6,
		},
		{
			name: "missing context parameter",
			src: `package svc

//ctrlgen:service Msg, context(st: *int)
type Svc struct{}

func (s *Svc) Do() {}
`,
			msg:  "must take the context parameter `st *int`",
			line: 6,
		},
		{
			name: "context type mismatch",
			src: `package svc

//ctrlgen:service Msg, context(st: *int)
type Svc struct{}

func (s *Svc) Do(st *string) {}
`,
			msg:  "context parameter has type `*string`",
			line: 6,
		},
		{
			name: "arg directive names unknown argument",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

//ctrlgen:arg missing to_owned
func (s *Svc) Do(a int) {}
`,
			msg:  "names `missing`",
			line: 6,
		},
		{
			name: "to_owned on a value type",
			src: `package svc

//ctrlgen:service Msg
type Svc struct{}

//ctrlgen:arg a to_owned
func (s *Svc) Do(a int) {}
`,
			msg:  "must be a pointer, slice or map",
			line: 6,
		},
		{
			name: "return_attr without result",
			src: `package svc

//ctrlgen:service Msg, returnval = ctrlgen.Local
type Svc struct{}

//ctrlgen:return_attr[json:"r"]
func (s *Svc) Do() {}
`,
			msg:  "`return_attr` used in method without a return type",
			line: 6,
		},
		{
			name: "message type named like the service",
			src: `package svc

//ctrlgen:service Svc
type Svc struct{}
`,
			msg:  "same name as the service type",
			line: 3,
		},
		{
			name: "pub requires exported names",
			src: `package svc

//ctrlgen:service pub svcMsg
type Svc struct{}
`,
			msg:  "message type `svcMsg` must be exported",
			line: 3,
		},
		{
			name: "pub requires exported proxies",
			src: `package svc

//ctrlgen:service pub SvcMsg, proxy(trait handle)
type Svc struct{}
`,
			msg:  "proxy `handle` must be exported",
			line: 3,
		},
		{
			name: "qualifier without import",
			src: `package svc

//ctrlgen:service Msg, returnval = rt.Local
type Svc struct{}
`,
			msg:  "package `rt` used in `returnval` is not imported",
			line: 3,
		},
		{
			name: "directive on a type group",
			src: `package svc

//ctrlgen:service Msg
type (
	A struct{}
	B struct{}
)
`,
			msg:  "on a type group is ambiguous",
			line: 3,
		},
		{
			name: "method directive on a type",
			src: `package svc

//ctrlgen:skip
type Svc struct{}
`,
			msg:  "`ctrlgen:skip` belongs on a method, not a type",
			line: 3,
		},
		{
			name: "duplicate service directive",
			src: `package svc

//ctrlgen:service Msg
//ctrlgen:service Other
type Svc struct{}
`,
			msg:  "more than one `ctrlgen:service` directive",
			line: 4,
		},
		{
			name: "generated name clashes with declaration",
			src: `package svc

type Msg int

//ctrlgen:service Msg
type Svc struct{}
`,
			msg:  "generated message type `Msg` clashes with the declaration at svc.go:3:6",
			line: 5,
		},
		{
			name: "generated names of two services clash",
			src: `package svc

//ctrlgen:service AMsg, proxy(trait Handle)
type A struct{}

//ctrlgen:service BMsg, proxy(trait Handle)
type B struct{}
`,
			msg:  "generated proxy `Handle` clashes with the generated proxy of A",
			line: 6,
		},
		{
			name: "alias target",
			src: `package svc

type Real struct{}

//ctrlgen:service Msg
type Svc = Real
`,
			msg:  "cannot target type alias `Svc`",
			line: 6,
		},
		{
			name: "interface target",
			src: `package svc

//ctrlgen:service Msg
type Svc interface{ Do() }
`,
			msg:  "`Svc` is an interface",
			line: 4,
		},
		{
			name: "runtime import name taken",
			src: `package svc

import ctrlgen "fmt"

var _ = ctrlgen.Sprint

//ctrlgen:service Msg
type Svc struct{}
`,
			msg:  "import name `ctrlgen` is reserved",
			line: 3,
		},
		{
			name: "malformed directive",
			src: `package svc

//ctrlgen:service Msg, returnval = ctrlgen.Local, returnval = ctrlgen.Promise
type Svc struct{}
`,
			msg:  "Argument `returnval` specified twice",
			line: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := analyzeSource(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)

			cerr, ok := errors.AsCtrlgenError(err)
			require.True(t, ok, "errors carry a location")
			assert.Equal(t, "svc.go", cerr.Location().File)
			assert.Equal(t, tt.line, cerr.Location().Line)
		})
	}
}

func TestAnalyzer_DirectiveColumn(t *testing.T) {
	src := "package svc\n\n//ctrlgen:service Msg, proxy(trait A; trait A)\ntype Svc struct{}\n"
	_, _, err := analyzeSource(t, src)
	require.Error(t, err)

	cerr, ok := errors.AsCtrlgenError(err)
	require.True(t, ok)
	line := "//ctrlgen:service Msg, proxy(trait A; trait A)"
	assert.Equal(t, 3, cerr.Location().Line)
	assert.Equal(t, 1+strings.LastIndex(line, "trait"), cerr.Location().Column)
}

func TestAnalyzer_MethodsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	a := write("a.go", `package svc

import "strings"

func (s *Svc) Upper(v string) string { return strings.ToUpper(v) }
`)
	b := write("b.go", `package svc

import "time"

//ctrlgen:service Msg, returnval = ctrlgen.Local
type Svc struct{}

func (s *Svc) Wait(d time.Duration) {}
`)

	pkg, err := LoadPackage(token.NewFileSet(), dir, []string{a, b})
	require.NoError(t, err)

	services, err := NewAnalyzer().AnalyzePackage(pkg)
	require.NoError(t, err)
	require.Len(t, services, 1)

	svc := services[0]
	assert.Equal(t, b, svc.SourceFile)
	require.Len(t, svc.Methods, 2)
	assert.Equal(t, "Upper", svc.Methods[0].Name)
	assert.Equal(t, "Wait", svc.Methods[1].Name)
	assert.Equal(t, "time.Duration", svc.Methods[1].Args[0].Type)
	assert.ElementsMatch(t, []models.Import{{Path: "time"}, {Path: "strings"}}, svc.Imports)
}
