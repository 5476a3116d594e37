package seed

type modelSeed struct {
	Platform, Brand, Family string
	Models                  []string
}

var devices = []modelSeed{
	{"iOS", "Apple", "iPhone", []string{
		"iPhone 15 Pro Max", "iPhone 15 Pro", "iPhone 15", "iPhone 14 Pro Max",
		"iPhone 14", "iPhone 13", "iPhone 12", "iPhone 11",
	}},
	{"iOS", "Apple", "iPad", []string{"iPad Pro 12.9", "iPad Air", "iPad Mini"}},
	{"Android", "Samsung", "Galaxy", []string{
		"Galaxy S24 Ultra", "Galaxy S24", "Galaxy S23", "Galaxy A54", "Galaxy A34",
	}},
	{"Android", "Xiaomi", "Redmi", []string{"Redmi Note 13 Pro", "Redmi Note 12", "Redmi 12"}},
	{"Android", "Oppo", "Reno", []string{"Reno 11 Pro", "Reno 10"}},
}

type partSeed struct {
	Name, SKU, Description string
	Cost, Price            int64
	Stock, Threshold       int
}

var parts = []partSeed{
	{"iPhone 15 Pro Max Screen", "IPH15PM-SCR", "Original OLED display for iPhone 15 Pro Max", 15000, 25000, 5, 3},
	{"iPhone 15 Pro Screen", "IPH15P-SCR", "Original OLED display for iPhone 15 Pro", 12000, 20000, 8, 3},
	{"iPhone 14 Battery", "IPH14-BAT", "Replacement battery for iPhone 14", 2500, 5000, 15, 5},
	{"iPhone 13 Screen", "IPH13-SCR", "OLED display for iPhone 13", 8000, 14000, 10, 4},
	{"iPhone Lightning Port", "IPH-LTNG", "Lightning charging port flex cable", 500, 1500, 25, 10},
	{"iPhone Camera Module", "IPH-CAM", "Rear camera module for various iPhone models", 3000, 6000, 12, 5},

	{"Galaxy S24 Ultra Screen", "GS24U-SCR", "AMOLED display for Galaxy S24 Ultra", 12000, 20000, 6, 3},
	{"Galaxy S23 Battery", "GS23-BAT", "Replacement battery for Galaxy S23", 2000, 4000, 18, 6},
	{"Samsung USB-C Port", "SAM-USBC", "USB-C charging port for Samsung devices", 400, 1200, 30, 10},
	{"Galaxy Back Glass", "GAL-BACK", "Replacement back glass for Galaxy phones", 1500, 3500, 20, 8},

	{"Redmi Note 13 Pro Screen", "RN13P-SCR", "AMOLED display for Redmi Note 13 Pro", 4000, 8000, 12, 4},
	{"Redmi Battery", "RED-BAT", "Universal Redmi battery", 1200, 2500, 22, 8},
	{"Xiaomi Power Button", "XI-PWR", "Power button flex cable", 200, 800, 35, 15},

	{"Oppo Reno Screen", "RENO-SCR", "AMOLED display for Reno series", 5000, 9000, 8, 3},
	{"Oppo Battery", "OPPO-BAT", "Replacement battery for Oppo phones", 1500, 3000, 16, 6},

	{"Universal Screen Protector", "UNI-PROT", "Tempered glass screen protector", 50, 200, 100, 30},
	{"Phone Case", "UNI-CASE", "Universal silicone phone case", 100, 400, 80, 25},
	{"Charging Cable", "UNI-CABLE", "USB-C/Lightning charging cable", 150, 500, 60, 20},
	{"Wireless Charger", "UNI-WCHG", "15W wireless charging pad", 800, 2000, 25, 10},
	{"Earbuds", "UNI-EARB", "Bluetooth wireless earbuds", 1500, 3500, 18, 7},
}

// familyPrefixes maps SKU prefixes to the family whose models the part fits.
// An empty family means every model.
var familyPrefixes = []struct {
	Family   string
	Prefixes []string
}{
	{"iPhone", []string{"IPH"}},
	{"Galaxy", []string{"GS", "GAL", "SAM"}},
	{"Redmi", []string{"RN", "RED", "XI"}},
	{"Reno", []string{"RENO", "OPPO"}},
	{"", []string{"UNI"}},
}

type saleLine struct {
	SKU   string
	Qty   int
	Price int64
}

type saleSeed struct {
	Customer, Phone, Email string
	Payment                string
	Discount               int64
	Notes                  string
	Lines                  []saleLine
}

var sampleSales = []saleSeed{
	{"Ahmed Ali", "+923001234567", "ahmed@example.com", "CASH", 2000,
		"iPhone 15 Pro Max screen replacement",
		[]saleLine{{"IPH15PM-SCR", 1, 25000}}},
	{"Fatima Khan", "+923009876543", "", "CARD", 0,
		"Battery replacement and screen protector",
		[]saleLine{{"IPH14-BAT", 1, 5000}, {"UNI-PROT", 2, 250}}},
	{"Hassan Malik", "+923005555555", "", "ONLINE", 500,
		"Redmi Note 13 Pro screen repair",
		[]saleLine{{"RN13P-SCR", 1, 8000}}},
}
