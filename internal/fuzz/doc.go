// Package fuzztests houses Go fuzz harnesses that exercise the diagram
// pipeline (preprocess -> lexer -> parser -> sanitizer). Its goal is to smoke
// test robustness and guard against panics or hangs on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через движок.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
