// internal/pkg/zookeeper/lock.go
package zookeeper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

const lockRoot = "/mall/locks"

// Conn 封装 ZooKeeper 连接。
type Conn struct {
	conn *zk.Conn
}

// Connect 建立到 ZooKeeper 集群的连接。
func Connect(addrs []string) (*Conn, error) {
	conn, _, err := zk.Connect(addrs, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn}, nil
}

// Close 关闭连接，所有临时节点随之释放。
func (c *Conn) Close() {
	c.conn.Close()
}

// DistributedLock 是基于临时顺序节点的分布式锁。
// 同一 resourceID 的持锁者序列号最小；后来者监听前驱节点等待。
type DistributedLock struct {
	conn     *Conn
	path     string
	lockNode string
}

// NewDistributedLock 创建一个针对某资源的锁实例。
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	path := lockRoot + "/" + resourceID
	if err := ensurePath(conn.conn, path); err != nil {
		return nil, err
	}
	return &DistributedLock{conn: conn, path: path}, nil
}

// Lock 尝试获取锁，获取不到则阻塞等待。
func (l *DistributedLock) Lock() error {
	nodePath, err := l.conn.conn.CreateProtectedEphemeralSequential(l.path+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath

	for {
		children, _, err := l.conn.conn.Children(l.path)
		if err != nil {
			return fmt.Errorf("failed to get children nodes: %w", err)
		}
		sort.Strings(children)

		myNodeName := strings.TrimPrefix(l.lockNode, l.path+"/")
		idx := -1
		for i, child := range children {
			if strings.HasSuffix(myNodeName, sequenceSuffix(child)) || child == myNodeName {
				idx = i
				break
			}
		}
		if idx <= 0 {
			// 自己是最小节点（或列表中找不到前驱），获取成功
			return nil
		}

		// 监听前一个节点，等它消失后重查
		prevPath := l.path + "/" + children[idx-1]
		exists, _, watch, err := l.conn.conn.ExistsW(prevPath)
		if err != nil {
			return fmt.Errorf("failed to watch predecessor node: %w", err)
		}
		if !exists {
			continue
		}
		<-watch
	}
}

// Unlock 释放锁。
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return nil
	}
	err := l.conn.conn.Delete(l.lockNode, -1)
	l.lockNode = ""
	if err != nil && err != zk.ErrNoNode {
		return err
	}
	return nil
}

// ensurePath 逐级创建持久节点。
func ensurePath(conn *zk.Conn, path string) error {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	current := ""
	for _, part := range parts {
		current += "/" + part
		_, err := conn.Create(current, []byte(""), 0, zk.WorldACL(zk.PermAll))
		if err != nil && err != zk.ErrNodeExists {
			return fmt.Errorf("failed to create node %s: %w", current, err)
		}
	}
	return nil
}

// sequenceSuffix 取出顺序节点名末尾的序列号部分，
// protected 节点带有 GUID 前缀，需要按序列号比较。
func sequenceSuffix(node string) string {
	if idx := strings.LastIndex(node, "-"); idx >= 0 && idx+1 < len(node) {
		return node[idx+1:]
	}
	return node
}
