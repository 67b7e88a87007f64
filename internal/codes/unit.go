package codes

// UnitEach is the default unit of measure for a line without one
const UnitEach = "EA"

// Units lists common UN/ECE Recommendation 20 unit of measure codes
var Units = register(newTable("units", []Entry{
	{"C62", "One"},
	{"EA", "Each"},
	{"H87", "Piece"},
	{"XUN", "Unit"},
	{"SET", "Set"},
	{"PR", "Pair"},
	{"DZN", "Dozen"},
	{"XBX", "Box"},
	{"XPK", "Package"},
	{"XCT", "Carton"},
	{"XBG", "Bag"},
	{"XBO", "Bottle"},
	{"XCN", "Can"},
	{"XRO", "Roll"},
	{"XPA", "Packet"},
	{"XPX", "Pallet"},
	{"KGM", "Kilogram"},
	{"GRM", "Gram"},
	{"MGM", "Milligram"},
	{"TNE", "Tonne (metric ton)"},
	{"LBR", "Pound"},
	{"MTR", "Metre"},
	{"CMT", "Centimetre"},
	{"MMT", "Millimetre"},
	{"KMT", "Kilometre"},
	{"MTK", "Square metre"},
	{"MTQ", "Cubic metre"},
	{"LTR", "Litre"},
	{"MLT", "Millilitre"},
	{"GLL", "Gallon (US)"},
	{"SEC", "Second"},
	{"MIN", "Minute"},
	{"HUR", "Hour"},
	{"DAY", "Day"},
	{"WEE", "Week"},
	{"MON", "Month"},
	{"ANN", "Year"},
	{"KWH", "Kilowatt hour"},
	{"KWT", "Kilowatt"},
	{"MWH", "Megawatt hour"},
	{"E48", "Service unit"},
	{"ACT", "Activity"},
	{"LS", "Lump sum"},
	{"NMP", "Number of packs"},
	{"NAR", "Number of articles"},
	{"D97", "Pallet (unit load)"},
	{"GB", "Gigabyte"},
	{"E34", "Gigabyte (computing)"},
	{"E35", "Terabyte"},
	{"4L", "Megabyte"},
	{"P1", "Percent"},
}))
