package main

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
)

// writeMethods collects the write methods declared by every contract.
func writeMethods(contracts []domainagg.Contract) map[string]bool {
	out := map[string]bool{}
	for _, c := range contracts {
		for _, m := range c.Writes {
			out[m] = true
		}
	}
	return out
}

type violation struct {
	Field    string `json:"field"`
	RepoType string `json:"repo_type"`
	Method   string `json:"method"`
	Line     int    `json:"line"`
	Owner    string `json:"owner"`
}

type methodStats struct {
	StructName     string      `json:"struct_name"`
	Method         string      `json:"method"`
	File           string      `json:"file"`
	Line           int         `json:"line"`
	AggregateCalls []string    `json:"aggregate_calls,omitempty"`
	Violations     []violation `json:"violations,omitempty"`
}

type report struct {
	AggregateCallsites int           `json:"aggregate_callsites"`
	ViolationCount     int           `json:"violation_count"`
	AggregateMethods   []methodStats `json:"aggregate_methods"`
	ViolatingMethods   []methodStats `json:"violating_methods"`
}

type structFields struct {
	RepoFields      map[string]string
	AggregateFields map[string]string
}

func collectStructFields(file *ast.File, out map[string]structFields) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			sf := structFields{
				RepoFields:      map[string]string{},
				AggregateFields: map[string]string{},
			}
			for _, field := range st.Fields.List {
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok {
					continue
				}
				typeName := sel.Sel.Name
				for _, name := range field.Names {
					switch {
					case pkgIdent.Name == "repos" && strings.HasSuffix(typeName, "Repo"):
						sf.RepoFields[name.Name] = typeName
					case pkgIdent.Name == "domainagg" && strings.HasSuffix(typeName, "Aggregate"):
						sf.AggregateFields[name.Name] = typeName
					}
				}
			}
			if len(sf.RepoFields) > 0 || len(sf.AggregateFields) > 0 {
				out[ts.Name.Name] = sf
			}
		}
	}
}

func collectMethodStats(fset *token.FileSet, file *ast.File, relFile string, fieldsByStruct map[string]structFields, contracts []domainagg.Contract) []methodStats {
	aggWrites := writeMethods(contracts)
	var out []methodStats
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		if recvName == "" {
			continue
		}
		sf, ok := fieldsByStruct[recvType]
		if !ok {
			continue
		}

		stats := methodStats{
			StructName: recvType,
			Method:     fd.Name.Name,
			File:       filepath.ToSlash(relFile),
			Line:       fset.Position(fd.Pos()).Line,
		}
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			field, method, ok := receiverCall(call, recvName)
			if !ok {
				return true
			}
			if repoType, ok := sf.RepoFields[field]; ok {
				cols := updateColumns(call)
				for _, c := range contracts {
					if c.Bypasses(repoType, method, cols) {
						stats.Violations = append(stats.Violations, violation{
							Field:    field,
							RepoType: repoType,
							Method:   method,
							Line:     fset.Position(call.Pos()).Line,
							Owner:    c.Name,
						})
					}
				}
				return true
			}
			if _, ok := sf.AggregateFields[field]; ok && aggWrites[method] {
				stats.AggregateCalls = append(stats.AggregateCalls, method)
			}
			return true
		})
		out = append(out, stats)
	}
	return out
}

// receiverCall matches recv.field.Method(...).
func receiverCall(call *ast.CallExpr, recvName string) (string, string, bool) {
	fnSel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", "", false
	}
	rcvSel, ok := fnSel.X.(*ast.SelectorExpr)
	if !ok {
		return "", "", false
	}
	base, ok := rcvSel.X.(*ast.Ident)
	if !ok || base.Name != recvName {
		return "", "", false
	}
	return rcvSel.Sel.Name, fnSel.Sel.Name, true
}

// updateColumns returns the string keys of a trailing map literal argument,
// or nil when the update map is built elsewhere.
func updateColumns(call *ast.CallExpr) []string {
	if len(call.Args) == 0 {
		return nil
	}
	lit, ok := call.Args[len(call.Args)-1].(*ast.CompositeLit)
	if !ok {
		return nil
	}
	if _, isMap := lit.Type.(*ast.MapType); !isMap {
		return nil
	}
	cols := []string{}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.BasicLit)
		if !ok || key.Kind != token.STRING {
			continue
		}
		if col, err := strconv.Unquote(key.Value); err == nil {
			cols = append(cols, col)
		}
	}
	return cols
}

func buildReport(methods []methodStats) report {
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].File == methods[j].File {
			return methods[i].Line < methods[j].Line
		}
		return methods[i].File < methods[j].File
	})

	r := report{AggregateMethods: []methodStats{}, ViolatingMethods: []methodStats{}}
	for _, m := range methods {
		if len(m.AggregateCalls) > 0 {
			r.AggregateCallsites += len(m.AggregateCalls)
			r.AggregateMethods = append(r.AggregateMethods, m)
		}
		if len(m.Violations) > 0 {
			r.ViolationCount += len(m.Violations)
			r.ViolatingMethods = append(r.ViolatingMethods, m)
		}
	}
	return r
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	recvName := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return recvName, id.Name
		}
	case *ast.Ident:
		return recvName, t.Name
	}
	return "", ""
}
