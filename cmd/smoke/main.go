package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fatalf("%v", err)
	}
}

func rootCmd() *cobra.Command {
	var (
		base        string
		platform    string
		waitSummary time.Duration
	)
	cmd := &cobra.Command{
		Use:          "smoke",
		Short:        "Exercise a running API end to end",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(base, platform, waitSummary)
		},
	}
	cmd.Flags().StringVar(&base, "base", envOr("API_BASE_URL", "http://localhost:8000"), "API base URL")
	cmd.Flags().StringVar(&platform, "platform", "Kaltura", "Platform to evaluate")
	cmd.Flags().DurationVar(&waitSummary, "wait-summary", 60*time.Second, "How long to poll for the AI summary")
	return cmd
}

func run(base, platform string, waitSummary time.Duration) error {
	httpc := &http.Client{Timeout: 12 * time.Second}

	// 1) An incomplete draft must be rejected with the first failing rule
	bad := draft(platform)
	bad.ReviewerEmail = ""
	var rejected struct {
		Error string `json:"error"`
	}
	code, err := postJSON(httpc, base+"/api/evaluations", bad, &rejected)
	if err != nil {
		return fmt.Errorf("submit incomplete draft: %w", err)
	}
	if code != http.StatusUnprocessableEntity {
		return fmt.Errorf("incomplete draft: want 422, got %d", code)
	}
	fmt.Printf("✅ Incomplete draft rejected: %q\n", rejected.Error)

	// 2) Save a complete evaluation
	var created schemas.EvaluationData
	code, err = postJSON(httpc, base+"/api/evaluations", draft(platform), &created)
	if err != nil {
		return fmt.Errorf("create evaluation: %w", err)
	}
	if code != http.StatusCreated {
		return fmt.Errorf("create evaluation: want 201, got %d", code)
	}
	fmt.Printf("✅ Saved evaluation: id=%s overall=%.2f\n", created.ID, created.OverallScore)

	// 3) It shows up in the list
	var list []schemas.EvaluationData
	if err := getJSON(httpc, base+"/api/evaluations", &list); err != nil {
		return fmt.Errorf("list evaluations: %w", err)
	}
	found := false
	for _, ev := range list {
		found = found || ev.ID == created.ID
	}
	if !found {
		return fmt.Errorf("evaluation %s missing from list of %d", created.ID, len(list))
	}
	fmt.Printf("✅ Listed %d evaluations\n", len(list))

	// 4) Request the AI summary and poll for it
	var req schemas.SummaryRequestOut
	if _, err := postJSON(httpc, fmt.Sprintf("%s/evaluations/%s/summary", base, created.ID), nil, &req); err != nil {
		return fmt.Errorf("request summary: %w", err)
	}
	fmt.Printf("✅ Summary requested: token=%s\n", req.Token)

	deadline := time.Now().Add(waitSummary)
	for {
		var st schemas.SummaryStateOut
		if err := getJSON(httpc, base+"/summary", &st); err != nil {
			return fmt.Errorf("summary state: %w", err)
		}
		if st.Token != req.Token {
			return fmt.Errorf("summary token changed to %s; another client is using the dashboard", st.Token)
		}
		if !st.Loading {
			fmt.Printf("✅ Summary:\n%s\n", st.Text)
			break
		}
		if time.Now().After(deadline) {
			fmt.Println("ℹ️  Summary still generating; giving up waiting")
			break
		}
		time.Sleep(time.Second)
	}

	fmt.Printf("🎉 Smoke run OK. EvaluationID=%s\n", created.ID)
	return nil
}

// draft scores every rubric item, cycling through 3..5.
func draft(platform string) schemas.DraftRequest {
	r := rubric.Default()
	scores := schemas.NewScores(r)
	n := 0
	for _, c := range r.Categories {
		for _, it := range c.Items {
			scores[c.ID].Items[it.ID] = schemas.ScoreItem{
				Score:    schemas.NewScore(3 + n%3),
				Comments: "smoke test",
			}
			n++
		}
	}
	date := time.Now().UTC().Format("2006-01-02")
	return schemas.DraftRequest{
		ReviewerName:      "Smoke Tester",
		ReviewerEmail:     "smoke@example.com",
		EvaluationDate:    &date,
		PlatformEvaluated: platform,
		Scores:            scores,
	}
}

// --- helpers ---

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// postJSON returns the status code; 4xx bodies are decoded into out too.
func postJSON(c *http.Client, url string, body any, out any) (int, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		r = bytes.NewReader(b)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, r)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 500 {
		b, _ := io.ReadAll(res.Body)
		return res.StatusCode, fmt.Errorf("POST %s -> %d: %s", url, res.StatusCode, string(b))
	}
	if out != nil {
		return res.StatusCode, json.NewDecoder(res.Body).Decode(out)
	}
	return res.StatusCode, nil
}

func getJSON(c *http.Client, url string, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	res, err := c.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("GET %s -> %d: %s", url, res.StatusCode, string(b))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func fatalf(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
	os.Exit(1)
}
