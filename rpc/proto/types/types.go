// Code generated by protoc-gen-go.
// source: types.proto
// DO NOT EDIT!

/*
Package types holds the protocol buffer messages shared by metricd's gRPC
service definition (collectd.proto) and its Go client/server wrapper
(package rpc). It mirrors collectd's own wire schema for an Identifier, a
typed Value and a ValueList.
*/
package types // import "metricd.example.org/rpc/proto/types"

import (
	fmt "fmt"
	math "math"

	proto "github.com/golang/protobuf/proto"
	duration "github.com/golang/protobuf/ptypes/duration"
	timestamp "github.com/golang/protobuf/ptypes/timestamp"
)

// Reference imports to suppress errors if they are not otherwise used.
var _ = proto.Marshal
var _ = fmt.Errorf
var _ = math.Inf

// Identifier uniquely names a metric: the five-tuple of host, plugin,
// plugin instance, type and type instance.
type Identifier struct {
	Host           string `protobuf:"bytes,1,opt,name=host" json:"host,omitempty"`
	Plugin         string `protobuf:"bytes,2,opt,name=plugin" json:"plugin,omitempty"`
	PluginInstance string `protobuf:"bytes,3,opt,name=plugin_instance,json=pluginInstance" json:"plugin_instance,omitempty"`
	Type           string `protobuf:"bytes,4,opt,name=type" json:"type,omitempty"`
	TypeInstance   string `protobuf:"bytes,5,opt,name=type_instance,json=typeInstance" json:"type_instance,omitempty"`
}

func (m *Identifier) Reset()         { *m = Identifier{} }
func (m *Identifier) String() string { return proto.CompactTextString(m) }
func (*Identifier) ProtoMessage()    {}

func (m *Identifier) GetHost() string {
	if m != nil {
		return m.Host
	}
	return ""
}

func (m *Identifier) GetPlugin() string {
	if m != nil {
		return m.Plugin
	}
	return ""
}

func (m *Identifier) GetPluginInstance() string {
	if m != nil {
		return m.PluginInstance
	}
	return ""
}

func (m *Identifier) GetType() string {
	if m != nil {
		return m.Type
	}
	return ""
}

func (m *Identifier) GetTypeInstance() string {
	if m != nil {
		return m.TypeInstance
	}
	return ""
}

// Value holds exactly one of a Counter, Gauge or Derive value. Absolute is
// not part of the wire schema, as in collectd's own gRPC service; package
// rpc's MarshalValue rejects api.Absolute values with an error.
type Value struct {
	// Types that are valid to be assigned to Value:
	//	*Value_Counter
	//	*Value_Gauge
	//	*Value_Derive
	Value isValue_Value `protobuf_oneof:"value"`
}

func (m *Value) Reset()         { *m = Value{} }
func (m *Value) String() string { return proto.CompactTextString(m) }
func (*Value) ProtoMessage()    {}

type isValue_Value interface {
	isValue_Value()
}

// Value_Counter is a Value's Counter variant.
type Value_Counter struct {
	Counter uint64 `protobuf:"varint,1,opt,name=counter,oneof"`
}

// Value_Gauge is a Value's Gauge variant.
type Value_Gauge struct {
	Gauge float64 `protobuf:"fixed64,2,opt,name=gauge,oneof"`
}

// Value_Derive is a Value's Derive variant.
type Value_Derive struct {
	Derive int64 `protobuf:"varint,3,opt,name=derive,oneof"`
}

func (*Value_Counter) isValue_Value() {}
func (*Value_Gauge) isValue_Value()   {}
func (*Value_Derive) isValue_Value()  {}

// GetValue returns the oneof wrapper actually set on m, or nil.
func (m *Value) GetValue() isValue_Value {
	if m != nil {
		return m.Value
	}
	return nil
}

// GetCounter returns m's Counter value, or 0 if a different variant is set.
func (m *Value) GetCounter() uint64 {
	if x, ok := m.GetValue().(*Value_Counter); ok {
		return x.Counter
	}
	return 0
}

// GetGauge returns m's Gauge value, or 0 if a different variant is set.
func (m *Value) GetGauge() float64 {
	if x, ok := m.GetValue().(*Value_Gauge); ok {
		return x.Gauge
	}
	return 0
}

// GetDerive returns m's Derive value, or 0 if a different variant is set.
func (m *Value) GetDerive() int64 {
	if x, ok := m.GetValue().(*Value_Derive); ok {
		return x.Derive
	}
	return 0
}

// ValueList is the wire representation of api.ValueList: an identifier, a
// timestamp, an interval and the values themselves.
type ValueList struct {
	Values     []*Value           `protobuf:"bytes,1,rep,name=values" json:"values,omitempty"`
	Time       *timestamp.Timestamp `protobuf:"bytes,2,opt,name=time" json:"time,omitempty"`
	Interval   *duration.Duration   `protobuf:"bytes,3,opt,name=interval" json:"interval,omitempty"`
	Identifier *Identifier          `protobuf:"bytes,4,opt,name=identifier" json:"identifier,omitempty"`
	DsNames    []string             `protobuf:"bytes,5,rep,name=ds_names,json=dsNames" json:"ds_names,omitempty"`
}

func (m *ValueList) Reset()         { *m = ValueList{} }
func (m *ValueList) String() string { return proto.CompactTextString(m) }
func (*ValueList) ProtoMessage()    {}

func (m *ValueList) GetValues() []*Value {
	if m != nil {
		return m.Values
	}
	return nil
}

func (m *ValueList) GetTime() *timestamp.Timestamp {
	if m != nil {
		return m.Time
	}
	return nil
}

func (m *ValueList) GetInterval() *duration.Duration {
	if m != nil {
		return m.Interval
	}
	return nil
}

func (m *ValueList) GetIdentifier() *Identifier {
	if m != nil {
		return m.Identifier
	}
	return nil
}

func init() {
	proto.RegisterType((*Identifier)(nil), "collectd.types.Identifier")
	proto.RegisterType((*Value)(nil), "collectd.types.Value")
	proto.RegisterType((*ValueList)(nil), "collectd.types.ValueList")
}
