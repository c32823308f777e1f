// Package script evaluates field predicates written in Lua.
//
// Schema documents declare conditional rules as short Lua expressions over
// the field value, bound to the global "value":
//
//	requiredIf: { lua: "value ~= ''" }
//	check:      { lua: "#value >= 8 and value:match('%d') ~= nil" }
//
// An expression without a return statement is wrapped as "return (<expr>)".
// The result is converted with Lua truthiness: nil and false fail, anything
// else passes.
//
// Predicates run in a sandboxed state with only the base, table, string and
// math libraries. File loading, require and the io, os and debug libraries
// are unavailable. Each evaluation is bounded by a timeout.
package script
