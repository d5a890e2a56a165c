package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/user/movieshelf/internal/apperr"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/utils"
)

// OMDbClient 通过 OMDb API 按标题查询电影
type OMDbClient struct {
	http    *utils.HTTPClient
	baseURL string
	apiKey  string
	retries uint64
	backoff time.Duration
	logger  *slog.Logger
}

// NewOMDbClient 创建 OMDb 客户端，retries 为网络错误或 5xx 时的最大重试次数
func NewOMDbClient(httpClient *utils.HTTPClient, baseURL, apiKey string, retries int, logger *slog.Logger) *OMDbClient {
	if retries < 0 {
		retries = 0
	}
	return &OMDbClient{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		retries: uint64(retries),
		backoff: 200 * time.Millisecond,
		logger:  logger.With("component", "omdb"),
	}
}

// WithBackoff 设置首次重试等待时间
func (c *OMDbClient) WithBackoff(d time.Duration) *OMDbClient {
	c.backoff = d
	return c
}

type omdbResponse struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Director string `json:"Director"`
	Poster   string `json:"Poster"`
	IMDbID   string `json:"imdbID"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// FetchByTitle 查询电影，OMDb 返回 Response=False 时视为未找到
func (c *OMDbClient) FetchByTitle(ctx context.Context, title string) (*model.CatalogEntry, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, apperr.ExternalLookup(err, "parse omdb base url")
	}
	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	var result omdbResponse
	attempt := 0
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		result = omdbResponse{}
		err := c.http.GetJSON(ctx, u.String(), &result)
		if err == nil {
			return nil
		}
		var statusErr *utils.StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return err
		}
		c.logger.WarnContext(ctx, "omdb request failed", "title", title, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return nil, apperr.ExternalLookup(err, "omdb lookup %q", title)
	}

	if result.Response != "True" || result.Title == "" {
		c.logger.DebugContext(ctx, "omdb miss", "title", title, "reason", result.Error)
		return nil, nil
	}

	return &model.CatalogEntry{
		Title:     result.Title,
		Year:      result.Year,
		Director:  result.Director,
		Poster:    result.Poster,
		CatalogID: result.IMDbID,
	}, nil
}
