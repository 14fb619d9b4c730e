package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// -------------------- 统计 --------------------

type APITestStats struct {
	mu        sync.Mutex
	latencies map[string][]time.Duration // 按步骤记录成功请求的延迟
	failures  map[string]int
}

func NewAPITestStats() *APITestStats {
	return &APITestStats{
		latencies: make(map[string][]time.Duration),
		failures:  make(map[string]int),
	}
}

func (s *APITestStats) Add(step string, success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.latencies[step] = append(s.latencies[step], latency)
	} else {
		s.failures[step]++
	}
}

func (s *APITestStats) Report(took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var steps []string
	for k := range s.latencies {
		seen[k] = true
		steps = append(steps, k)
	}
	for k := range s.failures {
		if !seen[k] {
			steps = append(steps, k)
		}
	}
	sort.Strings(steps)

	var ok, failed int
	fmt.Println("\n=== HTTP API测试结果 ===")
	fmt.Printf("耗时: %v\n", took)
	for _, step := range steps {
		lats := s.latencies[step]
		ok += len(lats)
		failed += s.failures[step]
		if len(lats) == 0 {
			fmt.Printf("%-14s 成功: 0 失败: %d\n", step, s.failures[step])
			continue
		}
		sort.Slice(lats, func(i, j int) bool { return lats[i] < lats[j] })
		var sum time.Duration
		for _, l := range lats {
			sum += l
		}
		fmt.Printf("%-14s 成功: %d 失败: %d 平均: %v p95: %v 最大: %v\n",
			step, len(lats), s.failures[step], sum/time.Duration(len(lats)),
			lats[len(lats)*95/100], lats[len(lats)-1])
	}
	fmt.Printf("总请求: %d 成功: %d 失败: %d\n", ok+failed, ok, failed)
	if took > 0 {
		fmt.Printf("QPS: %.2f\n", float64(ok)/took.Seconds())
	}
	fmt.Printf("Goroutines: %d\n", runtime.NumGoroutine())
}

// -------------------- 请求 --------------------

type envelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

type benchClient struct {
	base  string
	http  *http.Client
	stats *APITestStats
}

// call 发送JSON请求并解析统一响应，data 可为 nil
func (b *benchClient) call(step, method, path, token string, body, data interface{}) bool {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, b.base+path, &buf)
	if err != nil {
		b.stats.Add(step, false, 0)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := b.http.Do(req)
	if err != nil {
		b.stats.Add(step, false, time.Since(start))
		return false
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	latency := time.Since(start)

	var env envelope
	success := resp.StatusCode == http.StatusOK && json.Unmarshal(raw, &env) == nil && env.Code == 0
	if success && data != nil {
		success = json.Unmarshal(env.Data, data) == nil
	}
	b.stats.Add(step, success, latency)
	return success
}

// scenario 注册两名玩家 -> 登录 -> 发起邀请 -> 轮询 -> 拒绝 -> 再次轮询
func (b *benchClient) scenario(prefix string) {
	inviter, invitee := prefix+"a", prefix+"b"
	for _, name := range []string{inviter, invitee} {
		if !b.call("register", http.MethodPost, "/api/v1/users/register", "", map[string]string{"username": name, "password": "bench"}, nil) {
			return
		}
	}

	var inviterLogin, inviteeLogin struct {
		AccessToken string `json:"access_token"`
	}
	if !b.call("login", http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": inviter, "password": "bench"}, &inviterLogin) ||
		!b.call("login", http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": invitee, "password": "bench"}, &inviteeLogin) {
		return
	}

	var links struct {
		InviteID uint `json:"invite_id"`
	}
	if !b.call("invite", http.MethodPost, "/api/v1/invites", inviterLogin.AccessToken,
		map[string]interface{}{"inviter": inviter, "invitee": invitee, "turn": "goat"}, &links) {
		return
	}
	room := strconv.FormatUint(uint64(links.InviteID), 10)

	b.call("notifications", http.MethodGet, "/api/v1/notifications/"+invitee, "", nil, nil)
	b.call("poll", http.MethodGet, "/api/v1/invites/"+room+"/status/"+invitee, "", nil, nil)
	b.call("reject", http.MethodPut, "/api/v1/invites/"+room+"/status", inviteeLogin.AccessToken, map[string]string{"status": "REJECTED"}, nil)
	b.call("poll", http.MethodGet, "/api/v1/invites/"+room+"/status/"+invitee, "", nil, nil)
}

func runHTTPBench(base string, concurrency, perGoroutine int) {
	fmt.Println("\n=== HTTP API并发测试开始 ===")
	fmt.Printf("目标: %s 并发: %d 每协程场景数: %d\n", base, concurrency, perGoroutine)

	stats := NewAPITestStats()
	client := &benchClient{
		base:  base,
		http:  &http.Client{Timeout: 8 * time.Second},
		stats: stats,
	}

	// 用户名最长20个字符：6位批次号 + 协程号 + 序号 + a/b
	run := uuid.NewString()[:6]
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				client.scenario(fmt.Sprintf("b%s%d_%d", run, id, j))
			}
		}(i)
	}
	wg.Wait()

	stats.Report(time.Since(start))
}

// -------------------- 入口 --------------------

func main() {
	base := flag.String("base", "http://localhost:8000", "服务地址")
	concurrency := flag.Int("c", 5, "并发协程数")
	perGoroutine := flag.Int("n", 10, "每个协程执行的场景数")
	flag.Parse()

	if *concurrency <= 0 || *perGoroutine <= 0 {
		fmt.Fprintln(os.Stderr, "c 与 n 必须为正数")
		os.Exit(2)
	}

	fmt.Println("=== 对战大厅并发测试 ===")
	fmt.Printf("开始时间: %s\n", time.Now().Format("2006-01-02 15:04:05"))

	runHTTPBench(*base, *concurrency, *perGoroutine)

	fmt.Println("\n=== 测试完成 ===")
}
