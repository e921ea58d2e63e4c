package comptime

import "github.com/sunholo/pyzig/internal/ast"

// FoldModuleConstants walks a module's top-level simple assignments in
// order, folding each right-hand side against the constants resolved so
// far. An assignment that doesn't fold (or whose target isn't a bare
// name) simply doesn't contribute a binding; later assignments to the
// same name overwrite earlier ones, matching normal module execution
// order.
func FoldModuleConstants(mod *ast.Module) map[string]Value {
	consts := make(map[string]Value)
	for _, stmt := range mod.Body {
		assign, ok := stmt.(*ast.Assign)
		if !ok || len(assign.Targets) != 1 {
			continue
		}
		name, ok := assign.Targets[0].(*ast.Name)
		if !ok {
			continue
		}
		if v, ok := Fold(assign.Value, consts); ok {
			consts[name.Id] = v
		} else {
			delete(consts, name.Id)
		}
	}
	return consts
}
