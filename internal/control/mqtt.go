package control

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

// ClientOptionsFromURL builds paho options from a broker URL of the form
// mqtt://[user:pass@]host[:port]/topic/prefix[?client-id=id]. The path is
// returned as the topic prefix without surrounding slashes.
func ClientOptionsFromURL(brokerURL string) (*paho.ClientOptions, string, error) {
	u, err := url.Parse(brokerURL)
	if err != nil {
		return nil, "", err
	}
	scheme := u.Scheme
	if scheme == "" || scheme == "mqtt" {
		scheme = "tcp"
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(scheme + "://" + u.Host).
		SetAutoReconnect(true).
		SetCleanSession(true)
	if u.User != nil {
		opts.SetUsername(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			opts.SetPassword(pwd)
		}
	}
	if id := u.Query().Get("client-id"); id != "" {
		opts.SetClientID(id)
	}
	return opts, strings.Trim(u.Path, "/"), nil
}

// Subscriber applies MQTT messages to a Controller. A message on
// <prefix>/<op> runs op with the payload as argument.
type Subscriber struct {
	Client paho.Client

	prefix string
	ctl    *Controller
}

// NewSubscriber creates a Subscriber for brokerURL. It does not connect.
func NewSubscriber(ctl *Controller, brokerURL string) (*Subscriber, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID(clientID())
	}
	s := &Subscriber{prefix: prefix, ctl: ctl}
	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("mqtt: connection lost: %v", err)
	})
	s.Client = paho.NewClient(opts)
	return s, nil
}

// Topic returns the topic filter the Subscriber listens on.
func (s *Subscriber) Topic() string {
	return s.topic("+")
}

// Connect connects to the broker and waits for the result. Subscription
// happens on every (re)connect.
func (s *Subscriber) Connect() error {
	token := s.Client.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (s *Subscriber) Close() error {
	s.Client.Disconnect(250)
	return nil
}

func (s *Subscriber) onConnect(c paho.Client) {
	topic := s.Topic()
	token := c.Subscribe(topic, 1, s.handle)
	token.Wait()
	if err := token.Error(); err != nil {
		glog.Errorf("mqtt: subscribe %s: %v", topic, err)
		return
	}
	glog.Infof("mqtt: subscribed to %s", topic)
}

func (s *Subscriber) handle(_ paho.Client, m paho.Message) {
	op := strings.TrimPrefix(m.Topic(), s.topic(""))
	cmd := Command{Op: op, Arg: strings.TrimRight(string(m.Payload()), "\r\n")}
	glog.V(2).Infof("mqtt: %s: %q", m.Topic(), cmd.Arg)
	if err := s.ctl.Apply(context.Background(), cmd); err != nil {
		glog.Warningf("mqtt: %s: %v", cmd, err)
	}
}

func (s *Subscriber) topic(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func clientID() string {
	id, err := machineid.ProtectedID("tm1637")
	if err != nil {
		// No machine id in some containers.
		if id, err = os.Hostname(); err != nil {
			id = "unknown"
		}
	}
	if len(id) > 16 {
		id = id[:16]
	}
	return "tm1637-" + id
}
