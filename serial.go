// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package secsess

import (
	"strconv"

	"code.hybscloud.com/atomix"
)

// Serial identifies a session in logs. Each call to NewSession assigns
// the next value; serials are unique within a process until they wrap.
type Serial uint32

func (s Serial) String() string {
	return "s" + strconv.FormatUint(uint64(s), 10)
}

// serials is the process-wide session counter.
var serials atomix.Uint32

func nextSerial() Serial {
	return Serial(serials.Add(1))
}
