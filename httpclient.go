package kfeed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// NewHTTPClient — общий REST-клиент адаптеров. Прокси берётся из
// стандартных переменных окружения. Собственный таймаут не задаётся,
// работает таймаут транспорта (известное ограничение).
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
		},
	}
}

// FetchJSON выполняет GET и разбирает JSON-ответ в response.
// Неуспешный статус — UpstreamRequestError, битое тело — UpstreamParseError.
// Повторов нет: решение о ретрае принимает вызывающий.
func FetchJSON(ctx context.Context, client *http.Client, provider string, url string, response interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "%s: не смог создать запрос", provider)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s: запрос не выполнен", provider)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "%s: не смог прочитать ответ", provider)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamRequestError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	if err := json.Unmarshal(body, response); err != nil {
		return &UpstreamParseError{Provider: provider, Err: err}
	}
	return nil
}
