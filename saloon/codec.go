package saloon

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
)

// Saloons are stored in protobuf wire format. Field numbers follow
// the order of the struct fields and must never be reused. Unknown
// fields are skipped on decode, so new optional fields can be added
// without breaking older readers, and missing fields keep their zero
// value.
type saloonMessage struct {
	ID        uint64            `protobuf:"varint,1,opt,name=id,proto3"`
	Owner     string            `protobuf:"bytes,2,opt,name=owner,proto3"`
	Name      string            `protobuf:"bytes,3,opt,name=name,proto3"`
	Location  string            `protobuf:"bytes,4,opt,name=location,proto3"`
	SaloonURL string            `protobuf:"bytes,5,opt,name=saloon_url,json=saloonUrl,proto3"`
	Services  []*serviceMessage `protobuf:"bytes,6,rep,name=services"`
	CreatedAt uint64            `protobuf:"varint,7,opt,name=created_at,json=createdAt,proto3"`
	UpdatedAt *uint64           `protobuf:"varint,8,opt,name=updated_at,json=updatedAt"`
}

func (m *saloonMessage) Reset()         { *m = saloonMessage{} }
func (m *saloonMessage) String() string { return proto.CompactTextString(m) }
func (*saloonMessage) ProtoMessage()    {}

type serviceMessage struct {
	ServiceName        string  `protobuf:"bytes,1,opt,name=service_name,json=serviceName,proto3"`
	ServiceDescription string  `protobuf:"bytes,2,opt,name=service_description,json=serviceDescription,proto3"`
	CreatedAt          uint64  `protobuf:"varint,3,opt,name=created_at,json=createdAt,proto3"`
	UpdatedAt          *uint64 `protobuf:"varint,4,opt,name=updated_at,json=updatedAt"`
}

func (m *serviceMessage) Reset()         { *m = serviceMessage{} }
func (m *serviceMessage) String() string { return proto.CompactTextString(m) }
func (*serviceMessage) ProtoMessage()    {}

// Codec marshals saloons for the durable map
type Codec struct{}

// Marshal implements marshaled.Codec.Marshal
func (Codec) Marshal(s Saloon) ([]byte, error) {
	m := &saloonMessage{
		ID:        s.ID,
		Owner:     s.Owner,
		Name:      s.Name,
		Location:  s.Location,
		SaloonURL: s.SaloonURL,
		Services:  make([]*serviceMessage, len(s.Services)),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	for i, service := range s.Services {
		m.Services[i] = &serviceMessage{
			ServiceName:        service.ServiceName,
			ServiceDescription: service.ServiceDescription,
			CreatedAt:          service.CreatedAt,
			UpdatedAt:          service.UpdatedAt,
		}
	}

	data, err := proto.Marshal(m)

	if err != nil {
		return nil, fmt.Errorf("could not encode saloon: %w", err)
	}

	return data, nil
}

// Unmarshal implements marshaled.Codec.Unmarshal
func (Codec) Unmarshal(data []byte) (Saloon, error) {
	var m saloonMessage

	if err := proto.Unmarshal(data, &m); err != nil {
		return Saloon{}, fmt.Errorf("could not decode saloon: %w", err)
	}

	s := Saloon{
		ID:        m.ID,
		Owner:     m.Owner,
		Name:      m.Name,
		Location:  m.Location,
		SaloonURL: m.SaloonURL,
		Services:  make([]SaloonService, 0, len(m.Services)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	for _, service := range m.Services {
		if service == nil {
			continue
		}

		s.Services = append(s.Services, SaloonService{
			ServiceName:        service.ServiceName,
			ServiceDescription: service.ServiceDescription,
			CreatedAt:          service.CreatedAt,
			UpdatedAt:          service.UpdatedAt,
		})
	}

	return s, nil
}
