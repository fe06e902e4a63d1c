// Package api is a typed client for the chess server's JSON API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/transport"
)

// pollTimeout must outlast the server's long-poll window
const pollTimeout = 30 * time.Second

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
}

var _ transport.Backend = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: pollTimeout + 5*time.Second,
		},
	}
}

// HealthResponse mirrors the server's /health body
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.Verbose {
		log.Printf("[API] %s %s", method, path)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if c.Verbose {
		log.Printf("[API] %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.StatusCode >= 400 {
		reqErr := &core.RequestError{Status: resp.StatusCode}
		if err := json.Unmarshal(respBody, &reqErr.Response); err != nil || reqErr.Response.Error == "" {
			reqErr.Response = core.ErrorResponse{
				Error: fmt.Sprintf("request failed with status %d", resp.StatusCode),
				Code:  core.ErrInternalError,
			}
		}
		return reqErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) gamePath(gameID, suffix string) string {
	return "/api/v1/games/" + url.PathEscape(gameID) + suffix
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(context.Background(), http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req core.CreateGameRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(context.Background(), http.MethodPost, "/api/v1/games", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ConfigurePlayers(gameID string, req core.ConfigurePlayersRequest) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(context.Background(), http.MethodPut, c.gamePath(gameID, "/players"), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	if err := c.doRequest(context.Background(), http.MethodGet, c.gamePath(gameID, ""), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WaitGame long-polls the server. When ctx ends first the current state is
// fetched instead.
func (c *Client) WaitGame(ctx context.Context, gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := c.gamePath(gameID, fmt.Sprintf("?wait=true&moveCount=%d", moveCount))
	err := c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	if err != nil && ctx.Err() != nil {
		return c.GetGame(gameID)
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(context.Background(), http.MethodDelete, c.gamePath(gameID, ""), nil, nil)
}

// MakeMove submits a move; "cccc" asks the computer and returns while the
// game is still pending
func (c *Client) MakeMove(gameID, move string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(context.Background(), http.MethodPost, c.gamePath(gameID, "/moves"), core.MoveRequest{Move: move}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LegalMoves(gameID, from string) (*core.LegalMovesResponse, error) {
	path := c.gamePath(gameID, "/moves")
	if from != "" {
		path += "?from=" + url.QueryEscape(from)
	}

	var resp core.LegalMovesResponse
	if err := c.doRequest(context.Background(), http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(context.Background(), http.MethodPost, c.gamePath(gameID, "/undo"), core.UndoRequest{Count: count}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	if err := c.doRequest(context.Background(), http.MethodGet, c.gamePath(gameID, "/board"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardSVG downloads the rendered board
func (c *Client) BoardSVG(gameID string, opts core.BoardSVGOptions) ([]byte, error) {
	q := url.Values{}
	if opts.Mark != "" {
		q.Set("mark", opts.Mark)
	}
	if opts.Perspective != "" {
		q.Set("perspective", opts.Perspective)
	}
	if opts.SquareSize != 0 {
		q.Set("size", strconv.Itoa(opts.SquareSize))
	}
	if opts.HideCoordinates {
		q.Set("coords", "false")
	}
	path := c.gamePath(gameID, "/board.svg")
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		reqErr := &core.RequestError{Status: resp.StatusCode}
		if json.Unmarshal(data, &reqErr.Response) != nil {
			reqErr.Response.Error = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, reqErr
	}
	return data, nil
}
