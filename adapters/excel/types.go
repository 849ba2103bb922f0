package excel

// CompositeHeader is the literal header of the single column that packs
// work days, age and gender into one comma-separated value.
const CompositeHeader = `Количество больничных дней,"Возраст","Пол"`

// headerLabel is the unquoted leading part of CompositeHeader. It reads the
// same whether the header cell is CSV-quoted or not.
const headerLabel = "Количество больничных дней"

// Gender literals as they appear inside the composite value, quotes included.
const (
	genderMaleLiteral   = `"М"`
	genderFemaleLiteral = `"Ж"`
)

// rawRow is one physical row together with the line it came from
type rawRow struct {
	line  int
	cells []string
}

// fileKind distinguishes the two accepted container formats
type fileKind string

const (
	kindCSV  fileKind = "csv"
	kindXLSX fileKind = "xlsx"
)
