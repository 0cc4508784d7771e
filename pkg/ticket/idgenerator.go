/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package ticket

import (
	"errors"
	"net"

	"github.com/golang/example/stringutil"
	"github.com/sony/sonyflake"
	"github.com/speps/go-hashids"
)

var sf *sonyflake.Sonyflake

func init() {
	var st sonyflake.Settings
	sf = sonyflake.NewSonyflake(st)
	if sf == nil {
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			MachineID: lower16BitIP,
		})
	}
}

func nextIntID() uint64 {
	if sf == nil {
		panic(errors.New("invalid snowflake instance"))
	}
	id, err := sf.NextID()
	if err != nil {
		panic(err)
	}
	return id
}

// NewID generates a unique ticket id of the form <PREFIX>-<opaque>, e.g.
// TGT-B6BZVN3mOPvx.
func NewID(prefix string) string {
	id := nextIntID()
	hd := hashids.NewData()
	h, err := hashids.NewWithData(hd)
	if err != nil {
		panic(err)
	}
	encoded, err := h.Encode([]int{int(id)})
	if err != nil {
		panic(err)
	}
	return prefix + "-" + stringutil.Reverse(encoded)
}

func lower16BitIP() (uint16, error) {
	as, err := net.InterfaceAddrs()
	if err != nil {
		return 0, err
	}
	for _, a := range as {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		ip := ipnet.IP.To4()
		if ip == nil {
			continue
		}
		return uint16(ip[2])<<8 + uint16(ip[3]), nil
	}
	return 0, errors.New("no ip address")
}
