package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"grocery/config"
	"grocery/models"
)

// Open Food Facts 营养字段（每 100g）
const (
	nutrimentCalories = "energy-kcal_100g"
	nutrimentSugar    = "sugars_100g"
	nutrimentProtein  = "proteins_100g"
)

// NutritionClient 营养信息查询代理
// 每次请求只调用一次外部接口，不缓存不重试
type NutritionClient struct {
	baseURL    string
	userAgent  string
	pageSize   int
	timeout    time.Duration
	httpClient *http.Client
}

// NewNutritionClient 创建营养查询客户端
func NewNutritionClient(cfg config.NutritionConfig) *NutritionClient {
	pageSize := cfg.SearchPageSize
	if pageSize <= 0 || pageSize > config.MaxSearchPageSize {
		pageSize = config.MaxSearchPageSize
	}
	return &NutritionClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		pageSize:   pageSize,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
	}
}

// offProduct Open Food Facts 商品结构，只取需要的字段
type offProduct struct {
	Code        string                     `json:"code"`
	ProductName string                     `json:"product_name"`
	Brands      string                     `json:"brands"`
	Categories  string                     `json:"categories"`
	Nutriments  map[string]json.RawMessage `json:"nutriments"`
}

// offProductResponse /api/v2/product/{barcode}.json 响应
type offProductResponse struct {
	Status  json.RawMessage `json:"status"`
	Product *offProduct     `json:"product"`
}

// offSearchResponse /cgi/search.pl 响应
type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

// LookupBarcode 按条码查询，status 不为 1 视为未找到
func (n *NutritionClient) LookupBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", ErrValidation)
	}

	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", n.baseURL, url.PathEscape(barcode))
	var resp offProductResponse
	if err := n.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if !statusFound(resp.Status) || resp.Product == nil {
		return nil, fmt.Errorf("%w: barcode %s", ErrNotFound, barcode)
	}

	product := resp.Product.toProduct()
	product.Barcode = barcode
	return product, nil
}

// SearchByName 按名称搜索，只取第一条结果
func (n *NutritionClient) SearchByName(ctx context.Context, name string) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}

	params := url.Values{}
	params.Set("search_terms", name)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(n.pageSize))
	endpoint := n.baseURL + "/cgi/search.pl?" + params.Encode()

	var resp offSearchResponse
	if err := n.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	if len(resp.Products) == 0 {
		return nil, fmt.Errorf("%w: no products match %q", ErrNotFound, name)
	}
	return resp.Products[0].toProduct(), nil
}

// getJSON 发起 GET 请求并解析 JSON，超时单独区分
func (n *NutritionClient) getJSON(ctx context.Context, endpoint string, out any) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrExternalService, err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(err)
	}

	// 未知条码返回 404，body 中 status=0
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrExternalService, err)
	}
	return nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrLookupTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrExternalService, err)
}

// statusFound status 可能是数字 1 也可能是字符串 "1"
func statusFound(raw json.RawMessage) bool {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return s == "1"
}

func (p *offProduct) toProduct() *models.Product {
	return &models.Product{
		Barcode:  p.Code,
		Name:     optionalString(p.ProductName),
		Brand:    optionalString(p.Brands),
		Category: optionalString(p.Categories),
		Calories: optionalNumber(p.Nutriments[nutrimentCalories]),
		Sugar:    optionalNumber(p.Nutriments[nutrimentSugar]),
		Protein:  optionalNumber(p.Nutriments[nutrimentProtein]),
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalNumber 兼容数字和数字字符串，无法解析时视为缺失
func optionalNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
