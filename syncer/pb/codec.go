package pb

import "github.com/gogo/protobuf/proto"

func Decode(payload []byte) ([]*SyncMessage, error) {
	format := SyncMessageBatch{}
	err := proto.Unmarshal(payload, &format)
	if err != nil {
		return nil, err
	}
	return format.SyncMessages, nil
}
func Encode(messages ...*SyncMessage) ([]byte, error) {
	format := SyncMessageBatch{
		SyncMessages: messages,
	}
	return proto.Marshal(&format)
}
