package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// jobResponse mirrors the SiteSignal async job creation response.
type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// jobStatusResponse mirrors the SiteSignal job status response.
type jobStatusResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// discoverResponse mirrors the SiteSignal discover API response.
type discoverResponse struct {
	Success bool   `json:"success"`
	Domain  string `json:"domain"`
	URLs    []struct {
		URL      string `json:"url"`
		PageType string `json:"page_type"`
		Priority int    `json:"priority"`
	} `json:"urls"`
	Total int `json:"total"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// pageResponse mirrors the SiteSignal page API response.
type pageResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Images  []struct {
		URL string `json:"url"`
		Alt string `json:"alt_text"`
	} `json:"images"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("SITESIGNAL_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SITESIGNAL_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "SITESIGNAL_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"sitesignal",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	analyzeSiteTool := mcp.NewTool("analyze_site",
		mcp.WithDescription("Crawl a business website and return its aggregate profile: extracted text and images per page, page classifications, and content quality metrics."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The website URL or bare domain to analyze"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Maximum number of pages to crawl (default: 10, max: 50)"),
		),
	)
	s.AddTool(analyzeSiteTool, handleAnalyzeSite(apiURL, apiKey))

	discoverURLsTool := mcp.NewTool("discover_urls",
		mcp.WithDescription("Discover and prioritize a website's key pages (home, about, services, contact) without extracting content. Returns classified URLs ordered by relevance."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The website URL or bare domain to map"),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Maximum number of URLs to return (default: 10, max: 50)"),
		),
	)
	s.AddTool(discoverURLsTool, handleDiscoverURLs(apiURL, apiKey))

	extractPageTool := mcp.NewTool("extract_page",
		mcp.WithDescription("Fetch a single web page and return its cleaned content as text or Markdown, with filtered image metadata."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to extract"),
		),
		mcp.WithString("output_format",
			mcp.Description("Content format: 'text' (default) or 'markdown'"),
			mcp.Enum("text", "markdown"),
		),
	)
	s.AddTool(extractPageTool, handleExtractPage(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the SiteSignal API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			req.Header.Set("X-API-Key", apiKey)

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

func handleAnalyzeSite(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{"url": url}
		if maxPages, ok := request.GetArguments()["max_pages"]; ok {
			payload["config"] = map[string]interface{}{"max_pages": maxPages}
		}

		// POST to create analyze job, then poll until finished.
		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/analyze/async", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze request failed: %v", err)), nil
		}

		var job jobResponse
		if err := json.Unmarshal(respBody, &job); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse job response: %v", err)), nil
		}
		if job.ID == "" {
			return mcp.NewToolResultError("analyze job creation failed"), nil
		}

		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/analyze/"+job.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling analyze job failed: %v", err)), nil
		}

		var statusResp jobStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse job status: %v", err)), nil
		}

		if statusResp.Status != "completed" {
			errMsg := "analysis failed"
			if statusResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", statusResp.Error.Code, statusResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		// Return the full result as pretty JSON.
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, statusResp.Result, "", "  "); err != nil {
			pretty.Write(statusResp.Result)
		}

		return mcp.NewToolResultText(pretty.String()), nil
	}
}

func handleDiscoverURLs(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{"url": url}
		if maxPages, ok := request.GetArguments()["max_pages"]; ok {
			payload["max_pages"] = maxPages
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/discover", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("discover request failed: %v", err)), nil
		}

		var discResp discoverResponse
		if err := json.Unmarshal(respBody, &discResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse discover response: %v", err)), nil
		}

		if !discResp.Success {
			errMsg := "discover failed"
			if discResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", discResp.Error.Code, discResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Found %d URLs on %s:\n\n", discResp.Total, discResp.Domain))
		for _, u := range discResp.URLs {
			sb.WriteString(fmt.Sprintf("%-10s p%-3d %s\n", u.PageType, u.Priority, u.URL))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleExtractPage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{"url": url}
		if format := request.GetString("output_format", ""); format != "" {
			payload["output_format"] = format
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/page", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("page request failed: %v", err)), nil
		}

		var pgResp pageResponse
		if err := json.Unmarshal(respBody, &pgResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse page response: %v", err)), nil
		}

		if !pgResp.Success {
			errMsg := "page extraction failed"
			if pgResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", pgResp.Error.Code, pgResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Title: %s\nSource: %s\n\n", pgResp.Title, pgResp.URL))
		sb.WriteString(pgResp.Content)
		if len(pgResp.Images) > 0 {
			sb.WriteString("\n\n---\nImages:\n")
			for _, img := range pgResp.Images {
				sb.WriteString(fmt.Sprintf("%s (%s)\n", img.URL, img.Alt))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
