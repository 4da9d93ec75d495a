package parse

// translations maps backend enum values to display text per language.
var translations = map[string]map[string]string{
	"en": {
		"HOME_DELIVERY":       "Home delivery",
		"CURBSIDE":            "Curbside delivery",
		"PARCEL":              "Parcel delivery",
		"TRUCK":               "Truck delivery",
		"PUP":                 "Pickup point",
		"LOCKER":              "Parcel locker",
		"CLICK_COLLECT_STORE": "Click and collect in store",
		"IN_PROGRESS":         "In progress",
		"CONFIRMED":           "Confirmed",
		"READY_FOR_PICKUP":    "Ready for pickup",
		"DELIVERED":           "Delivered",
		"COMPLETED":           "Completed",
		"CANCELLED":           "Cancelled",
	},
	"ru": {
		"HOME_DELIVERY":       "Доставка на дом",
		"CURBSIDE":            "Доставка до подъезда",
		"PARCEL":              "Доставка посылкой",
		"TRUCK":               "Доставка грузовиком",
		"PUP":                 "Пункт выдачи",
		"LOCKER":              "Постамат",
		"CLICK_COLLECT_STORE": "Самовывоз из магазина",
		"IN_PROGRESS":         "В обработке",
		"CONFIRMED":           "Подтвержден",
		"READY_FOR_PICKUP":    "Готов к выдаче",
		"DELIVERED":           "Доставлен",
		"COMPLETED":           "Выполнен",
		"CANCELLED":           "Отменен",
	},
	"de": {
		"HOME_DELIVERY":       "Lieferung nach Hause",
		"CURBSIDE":            "Lieferung bis Bordsteinkante",
		"PARCEL":              "Paketlieferung",
		"TRUCK":               "Speditionslieferung",
		"PUP":                 "Abholstation",
		"LOCKER":              "Paketstation",
		"CLICK_COLLECT_STORE": "Click & Collect im Einrichtungshaus",
		"IN_PROGRESS":         "In Bearbeitung",
		"CONFIRMED":           "Bestätigt",
		"READY_FOR_PICKUP":    "Abholbereit",
		"DELIVERED":           "Geliefert",
		"COMPLETED":           "Abgeschlossen",
		"CANCELLED":           "Storniert",
	},
}

// Translate returns the display text for key in lang, falling back to
// English and then to key itself.
func Translate(lang, key string) string {
	if v, ok := translations[lang][key]; ok {
		return v
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
