package pricing

// Cities are the delivery destinations offered on the pre-order form.
var Cities = []string{
	"Hà Nội",
	CityHCM,
	"Đà Nẵng",
	"Hải Phòng",
	"Cần Thơ",
	"Biên Hòa",
	"Nha Trang",
	"Huế",
	"Vũng Tàu",
	"Buôn Ma Thuột",
	"Quy Nhơn",
	"Thái Nguyên",
	"Vinh",
	"Thanh Hóa",
	"Nam Định",
}

var knownCities = func() map[string]bool {
	m := make(map[string]bool, len(Cities))
	for _, c := range Cities {
		m[c] = true
	}
	return m
}()

// IsKnownCity reports whether city is one of Cities.
func IsKnownCity(city string) bool {
	return knownCities[city]
}
