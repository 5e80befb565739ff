package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		panic(err)
	}
}

// the portal stamps attendance records in JST no matter where this
// process runs, so local date arithmetic has to happen in JST too
func Now() time.Time {
	return time.Now().In(Location)
}
