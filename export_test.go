package simpledb

func (db *DB) IsOpen() bool {
	return db.state == open
}

func (db *DB) IsClosed() bool {
	return db.state == closed
}

var Resolve = resolve
var BindType = bindType
