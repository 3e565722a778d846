package utils

import (
	"math/rand"
	"time"

	"github.com/tidwall/gjson"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func RandStringRunes(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

func NoErrorFieldInJSON(jsonStr string) bool {
	return !gjson.Get(jsonStr, "error").Exists()
}
