package dynamobackend

import "time"

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
