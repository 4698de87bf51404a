/*
Package expr assembles SQL statements from fragments.

A fragment is a piece of SQL text together with the parameters for the "?"
placeholders it contains. Fragments are joined with single spaces in the order
they are appended and their parameters are concatenated in the same order, so
each clause keeps its parameters next to it:

	b := expr.NewBuilder().
		Append("UPDATE article").
		Append("SET title = ?", "new title").
		Append("WHERE id IN (?, ?, ?)", 1, 2, 3)

The package does not interact with databases. It only checks that the number
of placeholders matches the number of parameters.
*/
package expr
