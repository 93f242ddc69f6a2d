package redis

import (
	redisclient "github.com/redis/go-redis/v9"
)

func NewClient(address, password string) *redisclient.Client {
	return redisclient.NewClient(&redisclient.Options{
		Addr:     address,
		Password: password,
		DB:       0,
		Protocol: 2,
	})
}
