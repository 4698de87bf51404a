/*
Package decode turns the values scanned from a database/sql result set into
the generic values returned by simpledb.

Every column is decoded by the rule registered for the engine type reported by
the driver (see [sql.ColumnType.DatabaseTypeName]). Columns with no rule are
passed through as the driver reports them, except that []byte is turned into a
string. The same rules are used whether one row or every row is decoded.
*/
package decode
