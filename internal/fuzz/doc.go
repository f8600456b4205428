// Package fuzztests houses Go fuzz harnesses for the interpreter pipeline
// (source -> lexer -> parser -> evaluator). They guard against panics, hangs
// and broken structural invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// вычислитель с ограниченным числом шагов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
