package model

// Mechanic は整備士ディレクトリの1エントリを表す。
type Mechanic struct {
	ID        string
	Name      string
	Location  string
	Specialty string
}
