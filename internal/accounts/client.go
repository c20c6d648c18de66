package accounts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/hvladder/internal/logger"
	"github.com/vytor/hvladder/internal/models"
	"gopkg.in/yaml.v3"
)

// HTTPResolver queries the OpenRA account service. The endpoint answers with
// a MiniYAML document describing the player behind a fingerprint.
type HTTPResolver struct {
	httpClient  *http.Client
	urlTemplate string
}

// NewHTTPResolver builds a resolver for urlTemplate, where %s is replaced by
// the escaped fingerprint.
func NewHTTPResolver(urlTemplate string, timeout time.Duration) *HTTPResolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPResolver{
		httpClient:  &http.Client{Timeout: timeout},
		urlTemplate: urlTemplate,
	}
}

type profileDoc struct {
	Player struct {
		Fingerprint string `yaml:"Fingerprint"`
		KeyRevoked  bool   `yaml:"KeyRevoked"`
		ProfileID   int64  `yaml:"ProfileID"`
		ProfileName string `yaml:"ProfileName"`
		Avatar      struct {
			Src string `yaml:"Src"`
		} `yaml:"Avatar"`
	} `yaml:"Player"`
}

func (c *HTTPResolver) Resolve(ctx context.Context, fingerprint string) (*models.Identity, error) {
	log := logger.FromContext(ctx).WithPrefix("account_service").WithField("fingerprint", fingerprint)
	endpoint := fmt.Sprintf(c.urlTemplate, url.PathEscape(fingerprint))

	log.Debug("fetching profile from: %s", endpoint)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch profile: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("profile response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("profile request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("profile status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		log.Error("failed to read profile response: %v", err)
		return nil, err
	}

	id, err := ParseProfile(body)
	if err != nil {
		log.Warn("unreadable profile document, treating as unknown: %v", err)
		return nil, nil
	}
	return id, nil
}

// ParseProfile decodes a MiniYAML profile document. Revoked keys and documents
// without a profile id yield nil.
func ParseProfile(doc []byte) (*models.Identity, error) {
	var out profileDoc
	if err := yaml.Unmarshal([]byte(miniYAMLToYAML(string(doc))), &out); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if out.Player.KeyRevoked || out.Player.ProfileID == 0 {
		return nil, nil
	}
	return &models.Identity{
		ProfileID: out.Player.ProfileID,
		Name:      out.Player.ProfileName,
		AvatarURL: out.Player.Avatar.Src,
	}, nil
}

// miniYAMLToYAML turns tab indentation into spaces and quotes non-numeric scalars so
// player names with YAML meta characters survive decoding.
func miniYAMLToYAML(doc string) string {
	var sb strings.Builder
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, "\r")
		depth := len(line) - len(strings.TrimLeft(line, "\t"))
		body := strings.TrimLeft(line, "\t")
		if strings.TrimSpace(body) == "" || strings.HasPrefix(body, "#") {
			continue
		}
		key, value, found := strings.Cut(body, ":")
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(strings.TrimSpace(key))
		sb.WriteString(":")
		if found {
			if v := strings.TrimSpace(value); v != "" {
				sb.WriteString(" ")
				sb.WriteString(quote(v))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func quote(v string) string {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return v
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return strconv.FormatBool(b)
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
}
