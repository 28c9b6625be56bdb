package app

import (
	"github.com/vk/platformctl/components/ecsservice"
	"github.com/vk/platformctl/components/lambdaapi"
	"github.com/vk/platformctl/components/rdspostgres"
	"github.com/vk/platformctl/components/s3bucket"
	"github.com/vk/platformctl/components/sqsqueue"
	"github.com/vk/platformctl/components/vpc"
	"github.com/vk/platformctl/internal/registry"
)

// coreComponents is the definitive list of all component types that are
// compiled into the platformctl binary.
var coreComponents = []registry.Component{
	&ecsservice.Component{},
	&lambdaapi.Component{},
	&rdspostgres.Component{},
	&s3bucket.Component{},
	&sqsqueue.Component{},
	&vpc.Component{},
}
