package storage

// ModifyType is the smallest unit of mutation of the underlying storage.
type ModifyType int64

const (
	ModifyTypePut    ModifyType = 1
	ModifyTypeDelete ModifyType = 2
)

const (
	// CfDefault holds document data.
	CfDefault string = "default"
	// CfEncrypted holds the transformed payloads of encrypted fields,
	// keyed by the tokens the transformation layer derives for them.
	CfEncrypted string = "encrypted"
)

type Put struct {
	Key   []byte
	Value []byte
	Cf    string
}

type Delete struct {
	Key []byte
	Cf  string
}

type Modify struct {
	Type ModifyType
	Data interface{}
}

// Key returns the user key the modification touches, regardless of type.
func (m Modify) Key() []byte {
	switch data := m.Data.(type) {
	case Put:
		return data.Key
	case Delete:
		return data.Key
	}
	return nil
}
