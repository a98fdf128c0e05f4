package kfeed

import (
	"fmt"
)

// ошибка провайдера с неуспешным HTTP-статусом
type UpstreamRequestError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamRequestError) Error() string {
	return fmt.Sprintf("%s: запрос завершился со статусом %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ошибка разбора ответа провайдера
type UpstreamParseError struct {
	Provider string
	Err      error
}

func (e *UpstreamParseError) Error() string {
	return fmt.Sprintf("%s: не смог разобрать ответ: %v", e.Provider, e.Err)
}

func (e *UpstreamParseError) Unwrap() error {
	return e.Err
}

// неизвестный идентификатор провайдера при конструировании
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("неизвестный провайдер %q", e.Name)
}

// отказ аутентификации потокового соединения. Не пробрасывается наружу:
// живые обновления просто не начинаются, исторические данные доступны.
type AuthenticationFailedError struct {
	Provider string
	Reason   string
}

func (e *AuthenticationFailedError) Error() string {
	return fmt.Sprintf("%s: аутентификация отклонена: %s", e.Provider, e.Reason)
}
