package redis

import "fmt"

const ns = "parkgate:v1"

func KeySpotAvailability() string {
	return ns + ":spots:availability"
}

func KeySpotList(t string, onlyFree bool) string {
	return fmt.Sprintf("%s:spots:list:%s:%t", ns, t, onlyFree)
}

func KeyRevenue(datePrefix string) string {
	return fmt.Sprintf("%s:reports:revenue:%s", ns, datePrefix)
}

func KeyIdemEntry(plate, idemKey string) string {
	return fmt.Sprintf("%s:idem:entry:%s:%s", ns, plate, idemKey)
}

func ChannelSpotsChanged() string {
	return ns + ":spots:changed"
}
