package services

import "time"

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
