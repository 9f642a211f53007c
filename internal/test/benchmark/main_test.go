package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"
)

// 测试配置
type TestConfig struct {
	BaseURL     string `json:"base_url"`
	AuthToken   string `json:"auth_token"`
	IntercomID  int    `json:"intercom_id"`
	Concurrency int    `json:"concurrency"`
	Requests    int    `json:"requests"`
}

var config TestConfig

// TestMain 测试主函数。压测需要运行中的服务实例，
// 未设置 BENCHMARK_BASE_URL 时整个包跳过
func TestMain(m *testing.M) {
	if os.Getenv("BENCHMARK_BASE_URL") == "" {
		fmt.Println("跳过基准测试: 未设置 BENCHMARK_BASE_URL")
		os.Exit(0)
	}

	if err := loadConfig(); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// loadConfig 加载测试配置
func loadConfig() error {
	// 默认配置
	config = TestConfig{
		BaseURL:     os.Getenv("BENCHMARK_BASE_URL"),
		AuthToken:   os.Getenv("BENCHMARK_AUTH_TOKEN"),
		IntercomID:  1,
		Concurrency: 10,
		Requests:    100,
	}

	// 尝试从文件加载配置
	data, err := os.ReadFile("test_config.json")
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("解析配置文件失败: %v", err)
		}
	}

	return nil
}

// TestVerifyEndpoint 压测校验端点。限流生效时429是预期结果
func TestVerifyEndpoint(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, "")

	verifyRequest := map[string]interface{}{
		"pin":         "0000",
		"device_info": "benchmark",
	}

	result := benchmark.RunPOST(fmt.Sprintf("/intercoms/%d/access/verify", config.IntercomID), verifyRequest)
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("校验端点测试失败: 成功率 %.2f%%", float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

// TestPingEndpoint 压测健康检查端点
func TestPingEndpoint(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, "")
	result := benchmark.RunGET("/ping")
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("健康检查端点测试失败: 成功率 %.2f%%", float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

// TestAccessLogsEndpoint 压测审计日志查询端点，验证查询缓存的收益
func TestAccessLogsEndpoint(t *testing.T) {
	if config.AuthToken == "" {
		t.Skip("跳过: 未设置 BENCHMARK_AUTH_TOKEN")
	}

	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, config.AuthToken)
	result := benchmark.RunGET(fmt.Sprintf("/intercoms/%d/access/logs", config.IntercomID))
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("审计日志端点测试失败: 成功率 %.2f%%", float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}
