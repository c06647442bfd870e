/*
Package condition evaluates the boolean rules used by conditional selectors.

# Syntax

	<expr>       := <expr> 'or' <expr>
	              | <expr> 'and' <expr>
	              | 'not' <expr>
	              | '!' <expr>
	              | <comparison>
	              | <value>
	<comparison> := <value> <op> <value>
	<op>         := '==' | '!=' | '<' | '>' | '<=' | '>=' | 'contains'
	<value>      := 'string' | "string" | number | true | false | null | path

'and' binds tighter than 'or'. Operators inside quoted strings are literal.

# Paths

Identifiers resolve against the variables map. A dotted identifier looks up
its first segment and walks the rest with gjson path syntax over the JSON
form of that value. String and []byte values are read as JSON documents
as they are, so raw response bodies can be inspected directly:

	vars := condition.Vars(input, result)
	condition.Eval("result.status == 'ok' and result.items.# > 2", vars)

A path that does not exist under a known root is null. Any other
identifier that resolves to nothing is treated as a string literal, so
`result.kind == admin` compares against "admin".

# Truthiness

nil, false, "", and zero numbers are false; everything else is true.
*/
package condition
