// Package noexit содержит анализатор, запрещающий использование прямого вызова os.Exit в функции main пакета main.
package noexit

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// NoExitAnalyzer представляет анализатор, который проверяет отсутствие прямых вызовов os.Exit в функции main пакета main.
var NoExitAnalyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "запрещает использование прямого вызова os.Exit в функции main пакета main",
	Run:  run,
}

// run выполняет анализ AST для поиска вызовов os.Exit в функции main пакета main.
func run(pass *analysis.Pass) (interface{}, error) {
	// Анализируем только файлы нашего модуля, зависимости пропускаем
	if !strings.HasPrefix(pass.Fset.Position(pass.Files[0].Pos()).Filename, pass.Pkg.Path()) {
		return nil, nil
	}

	for _, file := range pass.Files {
		if file.Name.Name != "main" {
			continue
		}
		for _, decl := range file.Decls {
			funcDecl, ok := decl.(*ast.FuncDecl)
			if !ok || funcDecl.Name.Name != "main" || funcDecl.Recv != nil {
				continue
			}
			inspectMainBody(pass, funcDecl.Body)
		}
	}

	return nil, nil
}

// inspectMainBody сообщает обо всех вызовах os.Exit в теле функции main
func inspectMainBody(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		callExpr, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if isOSExit(pass, callExpr) {
			pass.Reportf(callExpr.Pos(), "прямой вызов os.Exit в функции main запрещен")
		}
		return true
	})
}

// isOSExit проверяет, что выражение является вызовом os.Exit
func isOSExit(pass *analysis.Pass, call *ast.CallExpr) bool {
	selExpr, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || selExpr.Sel.Name != "Exit" {
		return false
	}
	ident, ok := selExpr.X.(*ast.Ident)
	if !ok {
		return false
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	return ok && pkgName.Imported().Path() == "os"
}
