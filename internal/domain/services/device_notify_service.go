package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// 设备主题常量
const (
	// 开门指令主题前缀，完整主题为 access/unlock/<设备序列号>
	TopicUnlockPrefix = "access/unlock/"
)

// UnlockCommand 下发给门禁设备的开门指令
type UnlockCommand struct {
	IntercomID     uint                  `json:"intercom_id"`
	SerialNumber   string                `json:"serial_number"`
	CredentialType models.CredentialType `json:"credential_type"`
	Timestamp      int64                 `json:"timestamp"`
}

// InterfaceDeviceNotifyService 定义设备指令下发服务接口
type InterfaceDeviceNotifyService interface {
	Connect() error
	Disconnect()
	PublishUnlock(intercom *models.Intercom, credType models.CredentialType) error
}

// DeviceNotifyService 通过MQTT向门禁设备下发开门指令。
// 下发失败只记录日志，不影响已经作出的放行判定
type DeviceNotifyService struct {
	Config         *config.Config
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex // 保护IsConnected字段的读写
	PublishMutex   sync.Mutex   // 保护连接与发布过程
}

// NewDeviceNotifyService 创建一个新的设备指令下发服务
func NewDeviceNotifyService(cfg *config.Config) InterfaceDeviceNotifyService {
	service := &DeviceNotifyService{
		Config:      cfg,
		IsConnected: false,
	}
	service.setupMQTTClient()
	return service
}

// setupMQTTClient 设置MQTT客户端
func (s *DeviceNotifyService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s-%d", s.Config.MQTTClientID, uuid.New().String()[:8], time.Now().UnixNano()))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	// 添加用户名和密码
	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	// 添加TLS配置，支持SSL连接
	if strings.HasPrefix(s.Config.MQTTBrokerURL, "ssl://") || strings.HasPrefix(s.Config.MQTTBrokerURL, "tls://") || s.Config.MQTTSSLEnabled {
		log.Println("[MQTT] 使用TLS连接")
		tlsConfig := &tls.Config{
			InsecureSkipVerify: true, // 默认跳过验证，如有CA证书则使用
		}
		opts.SetTLSConfig(tlsConfig)
	}

	// 设置连接丢失回调
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("[MQTT] 连接丢失: %v", err)
		s.connectedMutex.Lock()
		s.IsConnected = false
		s.connectedMutex.Unlock()
	})

	// 设置连接建立回调
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Println("[MQTT] 成功连接到", s.Config.MQTTBrokerURL)
		s.connectedMutex.Lock()
		s.IsConnected = true
		s.connectedMutex.Unlock()
	})

	// 创建客户端
	s.Client = mqtt.NewClient(opts)
}

// Connect 连接到MQTT服务器，带有指数退避的重试机制
func (s *DeviceNotifyService) Connect() error {
	log.Printf("[MQTT] 正在连接到 %s...", s.Config.MQTTBrokerURL)

	// 加锁，确保同一时间只有一个连接尝试
	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	// 如果已连接，直接返回
	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if isConnected {
		return nil
	}

	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			s.connectedMutex.Lock()
			s.IsConnected = true
			s.connectedMutex.Unlock()
			log.Printf("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
			return nil
		}

		err = token.Error()
		backoffTime := time.Duration(1<<uint(i)) * time.Second // 指数退避: 1s, 2s, 4s, 8s, 16s
		log.Printf("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, maxRetries, err, backoffTime)
		time.Sleep(backoffTime)
	}

	return fmt.Errorf("[MQTT] 连接失败，已尝试 %d 次: %v", maxRetries, err)
}

// Disconnect 断开与MQTT服务器的连接
func (s *DeviceNotifyService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.connectedMutex.Lock()
	s.IsConnected = false
	s.connectedMutex.Unlock()
}

// PublishUnlock 向目标设备下发开门指令
func (s *DeviceNotifyService) PublishUnlock(intercom *models.Intercom, credType models.CredentialType) error {
	cmd := &UnlockCommand{
		IntercomID:     intercom.ID,
		SerialNumber:   intercom.SerialNumber,
		CredentialType: credType,
		Timestamp:      time.Now().Unix(),
	}
	return s.publishMessage(TopicUnlockPrefix+intercom.SerialNumber, cmd)
}

// publishMessage 发布消息到指定主题
func (s *DeviceNotifyService) publishMessage(topic string, payload interface{}) error {
	// 加锁保护发布过程，避免并发发布冲突
	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	// 检查连接状态
	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if !isConnected {
		log.Printf("[MQTT] 客户端未连接，尝试重新连接...")
		token := s.Client.Connect()
		if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
			return fmt.Errorf("MQTT客户端未连接: %v", token.Error())
		}
		s.connectedMutex.Lock()
		s.IsConnected = true
		s.connectedMutex.Unlock()
	}

	// 序列化消息
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %v", err)
	}

	// 发布消息，使用QoS 1确保消息至少被传递一次
	qos := byte(s.Config.MQTTQoS)
	retained := s.Config.MQTTRetained

	token := s.Client.Publish(topic, qos, retained, jsonData)

	// 设置超时时间，避免无限等待
	if !token.WaitTimeout(3 * time.Second) {
		return fmt.Errorf("发布消息超时")
	}

	if token.Error() != nil {
		return fmt.Errorf("发布消息失败: %v", token.Error())
	}

	log.Printf("[MQTT] 已下发开门指令到主题: %s", topic)
	return nil
}
