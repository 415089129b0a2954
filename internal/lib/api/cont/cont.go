package cont

import (
	"SafetyAgents/entity"
	"context"
	"fmt"
)

type ctxKey string

const userKey ctxKey = "user"

func PutUser(c context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(c, userKey, user)
}

func GetUser(c context.Context) (*entity.UserAuth, error) {
	user, ok := c.Value(userKey).(*entity.UserAuth)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}
