package analyzer

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	pAst "github.com/rill-lang/rill/rill/parser/ast"
)

// Suggestions further away than this are considered unrelated names
const maxSuggestionDistance = 3

//
// Expressions
//

func (self *Analyzer) expression(node pAst.Expression) {
	switch node.Kind() {
	case pAst.IntLiteralExpressionKind, pAst.StringLiteralExpressionKind:
		// nothing to analyze
	case pAst.IdentExpressionKind:
		self.identExpression(node.(pAst.IdentExpression))
	case pAst.GroupedExpressionKind:
		self.expression(node.(pAst.GroupedExpression).Inner)
	case pAst.InfixExpressionKind:
		infix := node.(pAst.InfixExpression)
		self.expression(infix.Lhs)
		self.expression(infix.Rhs)
	case pAst.MemberExpressionKind:
		self.memberExpression(node.(pAst.MemberExpression))
	case pAst.CallExpressionKind:
		self.callExpression(node.(pAst.CallExpression))
	default:
		panic("A new expression kind was added without updating this code")
	}
}

func (self *Analyzer) identExpression(node pAst.IdentExpression) {
	self.resolveName(node.Ident)
}

func (self *Analyzer) memberExpression(node pAst.MemberExpression) {
	// member access on an imported module is resolved against that module's
	// top-level names
	if base, isIdent := node.Base.(pAst.IdentExpression); isIdent {
		if variable, _, found := self.currentModule.getVar(base.Ident.Ident()); found && variable.Origin == ImportedVariableOriginKind {
			variable.Used = true
			self.moduleMember(base.Ident.Ident(), node.Member)
			return
		}
	}

	// any other member access is dynamic; only the base can be validated
	self.expression(node.Base)
}

func (self *Analyzer) moduleMember(moduleName string, member pAst.SpannedIdent) {
	imported, found := self.modules[moduleName]
	if !found {
		// resolution of the import itself failed and was already reported
		return
	}

	if fn, found := imported.getFunc(member.Ident()); found {
		fn.Used = true
		return
	}
	if cls, found := imported.getClass(member.Ident()); found {
		cls.Used = true
		return
	}
	if len(imported.Scopes) != 0 {
		if variable, found := imported.Scopes[0].Values[member.Ident()]; found {
			variable.Used = true
			return
		}
	}

	notes := make([]string, 0)
	if suggestion, found := closestName(member.Ident(), moduleExports(imported)); found {
		notes = append(notes, fmt.Sprintf("Did you mean '%s'?", suggestion))
	}

	self.error(
		fmt.Sprintf("No variable, function, or class named '%s' found in module '%s'", member.Ident(), moduleName),
		notes,
		member.Span(),
	)
}

func (self *Analyzer) callExpression(node pAst.CallExpression) {
	// a direct call of a module-level function is checked for its arity
	if base, isIdent := node.Base.(pAst.IdentExpression); isIdent {
		if _, _, isVar := self.currentModule.getVar(base.Ident.Ident()); !isVar {
			if fn, found := self.currentModule.getFunc(base.Ident.Ident()); found {
				fn.Used = true

				if len(node.Arguments) != len(fn.Parameters) {
					verb := "were"
					if len(node.Arguments) == 1 {
						verb = "was"
					}
					self.error(
						fmt.Sprintf(
							"Function '%s' expects %d argument(s), however %d %s supplied",
							base.Ident.Ident(),
							len(fn.Parameters),
							len(node.Arguments),
							verb,
						),
						[]string{fmt.Sprintf("Function '%s' is defined as `fn %s%s`", base.Ident.Ident(), base.Ident.Ident(), paramList(fn.Parameters))},
						node.Span(),
					)
				}

				for _, arg := range node.Arguments {
					self.expression(arg)
				}
				return
			}
		}
	}

	self.expression(node.Base)
	for _, arg := range node.Arguments {
		self.expression(arg)
	}
}

//
// Name resolution
//

func (self *Analyzer) resolveName(ident pAst.SpannedIdent) {
	if variable, _, found := self.currentModule.getVar(ident.Ident()); found {
		variable.Used = true
		return
	}
	if fn, found := self.currentModule.getFunc(ident.Ident()); found {
		fn.Used = true
		return
	}
	if cls, found := self.currentModule.getClass(ident.Ident()); found {
		cls.Used = true
		return
	}

	notes := make([]string, 0)
	if suggestion, found := closestName(ident.Ident(), self.visibleNames()); found {
		notes = append(notes, fmt.Sprintf("Did you mean '%s'?", suggestion))
	}

	self.error(
		fmt.Sprintf("Name '%s' is not defined", ident.Ident()),
		notes,
		ident.Span(),
	)
}

// Collects every name that is currently in scope, used for suggestions
func (self *Analyzer) visibleNames() []string {
	names := make([]string, 0)
	for _, scope := range self.currentModule.Scopes {
		for name := range scope.Values {
			names = append(names, name)
		}
	}
	for _, fn := range self.currentModule.Functions {
		names = append(names, fn.Ident.Ident())
	}
	for _, cls := range self.currentModule.Classes {
		names = append(names, cls.Ident.Ident())
	}
	return names
}

func moduleExports(module *Module) []string {
	names := make([]string, 0)
	for _, fn := range module.Functions {
		names = append(names, fn.Ident.Ident())
	}
	for _, cls := range module.Classes {
		names = append(names, cls.Ident.Ident())
	}
	if len(module.Scopes) != 0 {
		for name := range module.Scopes[0].Values {
			names = append(names, name)
		}
	}
	return names
}

func closestName(ident string, candidates []string) (suggestion string, found bool) {
	// iteration over map-derived candidates must be deterministic
	sort.Strings(candidates)

	bestDistance := maxSuggestionDistance + 1
	for _, candidate := range candidates {
		if candidate == ident {
			continue
		}
		distance := levenshtein.ComputeDistance(ident, candidate)
		if distance < bestDistance {
			bestDistance = distance
			suggestion = candidate
		}
	}

	return suggestion, bestDistance <= maxSuggestionDistance
}

func paramList(params []pAst.FnParam) string {
	out := "("
	for idx, param := range params {
		if idx != 0 {
			out += ", "
		}
		out += param.Ident.Ident()
	}
	return out + ")"
}
